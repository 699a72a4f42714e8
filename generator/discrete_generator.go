package generator

type Pair struct {
	Weight float64
	Value  string
}

// DiscreteGenerator picks one of a fixed set of values with probability
// proportional to its weight.
type DiscreteGenerator struct {
	random    *Random
	values    []*Pair
	lastValue string
}

func NewDiscreteGenerator(r *Random) *DiscreteGenerator {
	return &DiscreteGenerator{
		random:    r,
		values:    make([]*Pair, 0),
		lastValue: "",
	}
}

func (self *DiscreteGenerator) NextString() string {
	var sum float64
	for _, p := range self.values {
		sum += p.Weight
	}

	value := self.random.NextFloat64()

	for _, p := range self.values {
		v := p.Weight / sum
		if value < v {
			self.lastValue = p.Value
			return p.Value
		}
		value -= v
	}

	// rounding may leave a sliver past the last bucket
	last := self.values[len(self.values)-1].Value
	self.lastValue = last
	return last
}

func (self *DiscreteGenerator) LastString() string {
	if len(self.lastValue) == 0 {
		self.lastValue = self.NextString()
	}
	return self.lastValue
}

func (self *DiscreteGenerator) AddValue(weight float64, value string) {
	self.values = append(self.values, &Pair{
		Weight: weight,
		Value:  value,
	})
}
