package main

import (
	"time"

	"github.com/guregu/null/v6"
)

// ChartSpec is a renderer-neutral description of one dashboard chart. The
// builders produce it; chartrender.go and chartexport.go turn it into echarts
// options or a static image.
type ChartSpec struct {
	ID          string
	Title       string
	Kind        ChartKind
	Width       int
	Height      int
	XAxis       Axis
	YAxis       Axis
	Y2Axis      *Axis
	LegendTitle string
	Legend      []string
	Series      []Series
	Bands       []Band
	Heatmap     *HeatmapGrid
	Views       *ViewControl
	Annotations []Annotation
}

type ChartKind string

const (
	ChartLine    ChartKind = "line"
	ChartHeatmap ChartKind = "heatmap"
	ChartBubble  ChartKind = "bubble"
)

type AxisType string

const (
	AxisTime     AxisType = "time"
	AxisValue    AxisType = "value"
	AxisCategory AxisType = "category"
)

type Axis struct {
	Title      string
	Type       AxisType
	Min        null.Float
	Max        null.Float
	LabelAngle int
	Ratio      bool // ticks are ratios, not amounts
}

type SeriesKind string

const (
	SeriesLine    SeriesKind = "line"
	SeriesMarkers SeriesKind = "markers"
	SeriesRule    SeriesKind = "rule" // straight reference line between two points
)

type Series struct {
	ID      string
	Name    string
	Group   string // legend entry; series sharing a group toggle together
	Kind    SeriesKind
	Color   string
	Dash    bool
	Width   float64
	Axis    int // 0 primary y axis, 1 secondary
	Points  []Point
	Visible bool
	View    string // view option this series belongs to, if the chart has views
}

// LegendName is the legend entry the series is listed under.
func (s Series) LegendName() string {
	if s.Group != "" {
		return s.Group
	}
	return s.Name
}

// Point is one datum. Time is set on time axes and X on value axes; an
// invalid Y is a gap.
type Point struct {
	Time  time.Time
	X     float64
	Y     null.Float
	Size  float64
	Text  string
	Hover string
}

// Band is a shaded horizontal range drawn behind the series.
type Band struct {
	From    float64
	To      float64
	Color   string
	Opacity float64
}

type ColorStop struct {
	Offset float64
	Color  string
}

type HeatmapGrid struct {
	Rows    []string
	Columns []string
	Cells   [][]null.Float // [row][column]
	Min     float64
	Max     float64
	Stops   []ColorStop
	Label   string
}

// ViewControl is a selector that swaps between precomputed visibility masks.
type ViewControl struct {
	Active  int
	Options []ViewOption
}

type ViewOption struct {
	Label   string
	Title   string
	Visible []bool // one entry per ChartSpec.Series
}

type AnnotationPosition string

const (
	AnnotationTop    AnnotationPosition = "top"
	AnnotationBottom AnnotationPosition = "bottom"
)

// Annotation is a fixed text block outside the plot area. Y is in paper
// coordinates (0 bottom of plot, 1 top).
type Annotation struct {
	Text     string
	Position AnnotationPosition
	Y        float64
	Anchor   string
}

// addAnnotation attaches a persistent description to the chart. Anything other
// than "top" is placed below the plot.
func addAnnotation(spec *ChartSpec, text string, position string) *ChartSpec {
	a := Annotation{Text: text, Position: AnnotationBottom, Y: -0.20, Anchor: "top"}
	if AnnotationPosition(position) == AnnotationTop {
		a = Annotation{Text: text, Position: AnnotationTop, Y: 1.12, Anchor: "bottom"}
	}
	spec.Annotations = append(spec.Annotations, a)
	return spec
}

// visibility builds a mask over series from a predicate.
func visibility(series []Series, show func(Series) bool) []bool {
	mask := make([]bool, len(series))
	for i, s := range series {
		mask[i] = show(s)
	}
	return mask
}

// applyView sets each series' Visible flag from the chosen option.
func (spec *ChartSpec) applyView(idx int) {
	if spec.Views == nil || idx < 0 || idx >= len(spec.Views.Options) {
		return
	}
	opt := spec.Views.Options[idx]
	for i := range spec.Series {
		spec.Series[i].Visible = i < len(opt.Visible) && opt.Visible[i]
	}
	if opt.Title != "" {
		spec.Title = opt.Title
	}
	spec.Views.Active = idx
}
