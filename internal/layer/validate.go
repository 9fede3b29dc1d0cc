package layer

import (
	"fmt"
)

// Validate checks the structural invariants of a layer: a known kind, the
// matching variant props present, and common fields in range. Malformed
// layers are input errors and must never enter a document.
func (l *Layer) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("layer has no id")
	}
	if !l.Kind.Valid() {
		return fmt.Errorf("layer %s: unknown kind %q", l.ID, l.Kind)
	}
	if l.Opacity < 0 || l.Opacity > 1 {
		return fmt.Errorf("layer %s: opacity %v out of range", l.ID, l.Opacity)
	}

	var have Kind
	count := 0
	for k, present := range map[Kind]bool{
		KindText:    l.Text != nil,
		KindImage:   l.Image != nil,
		KindRect:    l.Rect != nil,
		KindCircle:  l.Circle != nil,
		KindLine:    l.Line != nil,
		KindStar:    l.Star != nil,
		KindBrush:   l.Brush != nil,
		KindTexture: l.Texture != nil,
		KindFill:    l.Fill != nil,
	} {
		if present {
			have = k
			count++
		}
	}
	if count != 1 || have != l.Kind {
		return fmt.Errorf("layer %s: kind %q does not match variant payload", l.ID, l.Kind)
	}

	if l.Kind == KindBrush {
		for i := range l.Brush.Strokes {
			s := &l.Brush.Strokes[i]
			if s.Hardness < 0 || s.Hardness > 100 {
				return fmt.Errorf("layer %s: stroke %d hardness %v out of range", l.ID, i, s.Hardness)
			}
			if s.Opacity < 0 || s.Opacity > 1 {
				return fmt.Errorf("layer %s: stroke %d opacity %v out of range", l.ID, i, s.Opacity)
			}
		}
	}
	return nil
}
