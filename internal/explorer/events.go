package explorer

import "github.com/jask/svmxplorer/internal/svm"

// Event is a user input delivered to Controller.Handle.
type Event interface {
	isEvent()
}

// PointPlaced adds a point to a class.
type PointPlaced struct {
	Class Class
	X, Y  float64
}

// ClearPressed resets points and hyperparameters.
type ClearPressed struct{}

// KernelSelected switches the kernel.
type KernelSelected struct {
	Kernel svm.Kernel
}

// GammaModeSelected switches gamma to a named mode.
type GammaModeSelected struct {
	Mode svm.GammaMode
}

// ParamChanged sets a numeric hyperparameter.
type ParamChanged struct {
	Param Param
	Value float64
}

func (PointPlaced) isEvent()       {}
func (ClearPressed) isEvent()      {}
func (KernelSelected) isEvent()    {}
func (GammaModeSelected) isEvent() {}
func (ParamChanged) isEvent()      {}
