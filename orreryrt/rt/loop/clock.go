package loop

// SampleClock is a headless Platform that replays fixed frame times. After
// the samples run out it reports ShouldClose.
type SampleClock struct {
	Samples []float64
	// Events[i] is returned by the poll after frame i.
	Events map[int][]KeyEvent

	now    float64
	next   int
	polls  int
	Swaps  int
	primed bool
}

func NewSampleClock(samples ...float64) *SampleClock {
	return &SampleClock{Samples: samples, Events: make(map[int][]KeyEvent)}
}

// Now returns 0 on the first call (the loop's start time) and then advances
// by one sample per call.
func (c *SampleClock) Now() float64 {
	if !c.primed {
		c.primed = true
		return c.now
	}
	if c.next < len(c.Samples) {
		c.now += c.Samples[c.next]
		c.next++
	}
	return c.now
}

func (c *SampleClock) ShouldClose() bool {
	return c.primed && c.next >= len(c.Samples)
}

func (c *SampleClock) PollEvents() []KeyEvent {
	ev := c.Events[c.polls]
	c.polls++
	return ev
}

func (c *SampleClock) SwapBuffers() {
	c.Swaps++
}
