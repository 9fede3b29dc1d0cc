package layer

import (
	"encoding/json"
	"testing"

	"github.com/yzydeveloper/tesla-wrap-sub000/pkg/geometry"
)

func validRect() *Layer {
	return &Layer{
		ID: "r1", Name: "Rect", Kind: KindRect,
		Visible: true, Opacity: 1, ScaleX: 1, ScaleY: 1,
		Rect: &RectProps{Width: 200, Height: 100, Fill: "#D32F2F"},
	}
}

func TestKindValid(t *testing.T) {
	for _, k := range []Kind{KindText, KindImage, KindRect, KindCircle, KindLine, KindStar, KindBrush, KindTexture, KindFill} {
		if !k.Valid() {
			t.Errorf("kind %q should be valid", k)
		}
	}
	if Kind("gradient").Valid() {
		t.Error("unknown kind accepted")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Layer)
		wantErr bool
	}{
		{"valid", func(*Layer) {}, false},
		{"missing id", func(l *Layer) { l.ID = "" }, true},
		{"unknown kind", func(l *Layer) { l.Kind = "gradient" }, true},
		{"opacity too high", func(l *Layer) { l.Opacity = 1.5 }, true},
		{"opacity negative", func(l *Layer) { l.Opacity = -0.1 }, true},
		{"no payload", func(l *Layer) { l.Rect = nil }, true},
		{"mismatched payload", func(l *Layer) {
			l.Rect = nil
			l.Circle = &CircleProps{Radius: 10, Fill: "#000000"}
		}, true},
		{"two payloads", func(l *Layer) {
			l.Circle = &CircleProps{Radius: 10, Fill: "#000000"}
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := validRect()
			tt.mutate(l)
			err := l.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateBrushStrokeRanges(t *testing.T) {
	l := &Layer{
		ID: "b1", Kind: KindBrush, Opacity: 1,
		Brush: &BrushProps{Strokes: []BrushStroke{{
			Points:   []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}},
			Color:    "#000000",
			Size:     20,
			Hardness: 150,
			Opacity:  1,
		}}},
	}
	if err := l.Validate(); err == nil {
		t.Error("hardness 150 should be rejected")
	}
	l.Brush.Strokes[0].Hardness = 50
	if err := l.Validate(); err != nil {
		t.Errorf("valid stroke rejected: %v", err)
	}
}

func TestBounds(t *testing.T) {
	tests := []struct {
		name  string
		layer *Layer
		want  geometry.Rect
	}{
		{
			"rect",
			&Layer{Kind: KindRect, Rect: &RectProps{Width: 200, Height: 100}},
			geometry.NewRect(0, 0, 200, 100),
		},
		{
			"circle centered at origin",
			&Layer{Kind: KindCircle, Circle: &CircleProps{Radius: 60}},
			geometry.NewRect(-60, -60, 120, 120),
		},
		{
			"star uses outer radius",
			&Layer{Kind: KindStar, Star: &StarProps{NumPoints: 5, InnerRadius: 30, OuterRadius: 70}},
			geometry.NewRect(-70, -70, 140, 140),
		},
		{
			"line bounding box",
			&Layer{Kind: KindLine, Line: &LineProps{Points: []geometry.Point2D{{X: 10, Y: 5}, {X: 50, Y: 25}}}},
			geometry.NewRect(10, 5, 40, 20),
		},
		{
			"fill covers canvas",
			&Layer{Kind: KindFill, Fill: &FillProps{}},
			geometry.NewRect(0, 0, CanvasSize, CanvasSize),
		},
		{
			"empty brush covers canvas",
			&Layer{Kind: KindBrush, Brush: &BrushProps{}},
			geometry.NewRect(0, 0, CanvasSize, CanvasSize),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.layer.Bounds(); got != tt.want {
				t.Errorf("Bounds() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBrushBoundsFollowStrokes(t *testing.T) {
	l := &Layer{Kind: KindBrush, Brush: &BrushProps{Strokes: []BrushStroke{
		{Points: []geometry.Point2D{{X: 100, Y: 100}, {X: 200, Y: 150}}},
		{Points: []geometry.Point2D{{X: 50, Y: 300}, {X: 120, Y: 310}}},
	}}}
	want := geometry.NewRect(50, 100, 150, 210)
	if got := l.Bounds(); got != want {
		t.Errorf("Bounds() = %+v, want %+v", got, want)
	}
}

func TestBlendModeText(t *testing.T) {
	for _, m := range []BlendMode{BlendNormal, BlendMultiply, BlendScreen, BlendOverlay} {
		text, err := m.MarshalText()
		if err != nil {
			t.Fatalf("marshal %v: %v", m, err)
		}
		var back BlendMode
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("unmarshal %q: %v", text, err)
		}
		if back != m {
			t.Errorf("round-trip %v: got %v", m, back)
		}
	}

	var m BlendMode
	if err := m.UnmarshalText([]byte("dissolve")); err == nil {
		t.Error("unknown blend mode accepted")
	}
}

func TestBrushStrokeJSON(t *testing.T) {
	s := BrushStroke{
		Points:  []geometry.Point2D{{X: 1, Y: 2}},
		Color:   EraserColor,
		Size:    30,
		Opacity: 1,
		Flow:    0.8,
		Blend:   BlendMultiply,
	}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	var back BrushStroke
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !back.IsEraser() || back.Blend != BlendMultiply {
		t.Errorf("round-trip lost fields: %+v", back)
	}
}
