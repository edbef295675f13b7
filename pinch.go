package zoom

// PinchBegin takes over scale from any running animation and measures the
// pinch from where scale is right now.
func (c *Controller) PinchBegin() {
	c.scale.Cancel()
	c.pinchSavedScale = c.scale.Get()
	c.pinching = true
	c.log.Debug("pinch begin", "scale", c.pinchSavedScale)
}

// PinchUpdate sets scale from the span ratio since the pinch began. Translate
// is left to the pan running alongside.
func (c *Controller) PinchUpdate(factor float64) {
	if !c.pinching || !isFinite(factor) {
		return
	}
	c.scale.Set(RubberBandScale(c.pinchSavedScale*factor, c.config.MaxScale))
}

// PinchEnd springs scale back into [1, MaxScale]. The translate envelope
// shrinks with scale, so translate is clamped into the bounds at the settled
// scale as well. While a pan is still dragging, translate stays with the pan
// and is bounded when the pan ends.
func (c *Controller) PinchEnd() {
	if !c.pinching {
		return
	}
	c.pinching = false

	target := Clamp(c.scale.Get(), MinScale, c.config.MaxScale)
	c.engine.SpringTo(c.scale, target, c.config.Spring)
	c.pinchSavedScale = target

	if c.panning {
		c.log.Debug("pinch end", "target", target, "translate", "deferred to pan")
		return
	}

	clamped := c.Geometry.Bounds(target).ClampVect(c.Translate())
	c.springTranslate(clamped)
	c.panSaved = clamped
	c.log.Debug("pinch end", "target", target, "translate", clamped)
}
