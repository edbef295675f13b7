package zoom

// PanBegin stops any spring or fling on translate and measures the drag from
// the position the image is visibly at, not from where the animation was
// heading.
func (c *Controller) PanBegin() {
	c.translateX.Cancel()
	c.translateY.Cancel()
	c.panSaved = c.Translate()
	c.panning = true
	c.log.Debug("pan begin", "translate", c.panSaved)
}

// PanUpdate moves translate by the drag since the pan began, with rubber-band
// resistance past the bounds at the live scale.
func (c *Controller) PanUpdate(translation Vector) {
	if !c.panning || !translation.IsFinite() {
		return
	}
	max := c.Geometry.MaxTranslate(c.scale.Get())
	proposed := c.panSaved.Add(translation)
	c.translateX.Set(RubberBand(proposed.X, -max.X, max.X))
	c.translateY.Set(RubberBand(proposed.Y, -max.Y, max.Y))
}

// PanEnd flings each axis with the release velocity. The fling comes to rest
// inside the bounds of the scale that scale itself is settling to. A pinch that
// ended while this pan was still dragging leaves translate unclamped, so this
// is where it returns inside the bounds.
func (c *Controller) PanEnd(velocity Vector) {
	if !c.panning {
		return
	}
	c.panning = false
	if !velocity.IsFinite() {
		velocity = Vector{}
	}

	max := c.Geometry.MaxTranslate(c.restingScale())
	c.engine.Decay(c.translateX, DecayConfig{
		Velocity:           velocity.X,
		ClampMin:           -max.X,
		ClampMax:           max.X,
		BoundaryElasticity: DecayRubberBandFactor,
		DecelerationRate:   c.config.DecelerationRate,
	})
	c.engine.Decay(c.translateY, DecayConfig{
		Velocity:           velocity.Y,
		ClampMin:           -max.Y,
		ClampMax:           max.Y,
		BoundaryElasticity: DecayRubberBandFactor,
		DecelerationRate:   c.config.DecelerationRate,
	})
	c.panSaved = c.Translate()
	c.log.Debug("pan end", "velocity", velocity, "max", max)
}
