package integrators

import "github.com/san-kum/astropc/internal/dynamo"

// Heun predicts the end of the step with an Euler step and corrects with
// the average of the derivatives at both ends.
type Heun struct{}

func NewHeun() *Heun {
	return &Heun{}
}

func (e *Heun) Step(sys dynamo.System, x dynamo.State, t, h float64) (dynamo.State, error) {
	_, k1, k2, err := e.Predict(sys, x, t, h)
	if err != nil {
		return nil, err
	}

	next := make(dynamo.State, len(x))
	for i := range x {
		next[i] = x[i] + 0.5*h*(k1[i]+k2[i])
	}
	if err := dynamo.Admit(sys, next, t+h); err != nil {
		return nil, err
	}
	return next, nil
}

// Predict returns the predicted end state together with the derivatives
// at the start and at the prediction.
func (e *Heun) Predict(sys dynamo.System, x dynamo.State, t, h float64) (pred, k1, k2 dynamo.State, err error) {
	k1, err = sys.Derive(x, t)
	if err != nil {
		return nil, nil, nil, err
	}

	pred = x.AddScaled(h, k1)
	if err = dynamo.Admit(sys, pred, t+h); err != nil {
		return nil, nil, nil, err
	}

	k2, err = sys.Derive(pred, t+h)
	if err != nil {
		return nil, nil, nil, err
	}
	return pred, k1, k2, nil
}
