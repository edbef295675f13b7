package zoom

// ResetThreshold is the scale above which a double tap zooms back out.
const ResetThreshold = 1.1

// DoubleTap either resets a zoomed image or zooms in to DoubleTapScale about
// the tapped point. p is in container coordinates.
func (c *Controller) DoubleTap(p Vector) {
	c.scale.Cancel()
	c.translateX.Cancel()
	c.translateY.Cancel()

	s := c.scale.Get()
	if s > ResetThreshold {
		c.Reset()
		return
	}

	target := c.config.DoubleTapScale
	focus := c.Geometry.FocusOffset(p)
	next := FocusZoom(focus, c.Translate(), s, target)
	clamped := c.Geometry.Bounds(target).ClampVect(next)

	c.engine.SpringTo(c.scale, target, c.config.Spring)
	c.springTranslate(clamped)
	c.pinchSavedScale = target
	c.panSaved = clamped
	c.log.Debug("double tap zoom", "focus", focus, "translate", clamped)
}

// Reset springs back to scale 1 with the image in its initial position.
func (c *Controller) Reset() {
	home := c.Geometry.InitialTranslate()
	c.log.Debug("reset", "from", c.Snapshot())
	c.engine.SpringTo(c.scale, MinScale, c.config.Spring)
	c.springTranslate(home)
	c.pinchSavedScale = MinScale
	c.panSaved = home
}

// FocusZoom is the translate that keeps the image point under focus fixed on
// screen while scale goes from `from` to `to`. focus and translate are offsets
// from the container centre.
func FocusZoom(focus, translate Vector, from, to float64) Vector {
	ratio := to / from
	return focus.Add(translate.Sub(focus).Mult(ratio))
}
