package garage

// DefaultSpeed is the speed of every car built by a CarFactory.
const DefaultSpeed = 10

// Car is a vehicle built by a CarFactory.
type Car struct {
	Model string
	Speed int
}

// CarFactory builds cars.
type CarFactory struct{}

// NewCarFactory creates a car factory.
func NewCarFactory() *CarFactory {
	return &CarFactory{}
}

// Create builds a car of the given model.
func (f *CarFactory) Create(model string) *Car {
	return &Car{Model: model, Speed: DefaultSpeed}
}
