package analysis

// PhasePoint is one (u, du/dt) sample.
type PhasePoint struct{ X, Y float64 }

// PhasePortrait2D holds a probe trajectory in phase space.
type PhasePortrait2D struct {
	Points []PhasePoint
}

// NewPhasePortrait pairs every sample with its backward difference.
func NewPhasePortrait(samples []float64, dt float64) *PhasePortrait2D {
	portrait := &PhasePortrait2D{}
	if len(samples) < 2 || dt <= 0 {
		return portrait
	}
	portrait.Points = make([]PhasePoint, 0, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		portrait.Points = append(portrait.Points, PhasePoint{
			X: samples[i],
			Y: (samples[i] - samples[i-1]) / dt,
		})
	}
	return portrait
}

// StroboscopicSection keeps every period-th point of the phase portrait,
// starting at offset. Under periodic forcing a steady response collapses
// to a single point.
func StroboscopicSection(samples []float64, dt float64, period, offset int) *PhasePortrait2D {
	full := NewPhasePortrait(samples, dt)
	section := &PhasePortrait2D{}
	if period <= 0 {
		return section
	}
	for i := offset; i < len(full.Points); i += period {
		if i >= 0 {
			section.Points = append(section.Points, full.Points[i])
		}
	}
	return section
}

// PhasePortraitToASCII converts phase portrait to ASCII art
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := newCanvas(width, height)
	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// Draw axes if they cross the visible area
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	return canvasString(canvas)
}
