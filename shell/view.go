// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"fmt"
	"html/template"
	"strconv"

	"github.com/jcodagnone/chorography/gazetteer"
)

// Fixed page labels.
const (
	PageTitle       = "繪製古代地方志地圖"
	IntroText       = "輸入包含地方志書名的xlsx文件自動繪製地圖，地圖標題是文件名。"
	NoteText        = "注意：（1）xlsx文件中需要有“書名”列；（2）衹能繪製愛如生方志庫書目中的地方志地圖，方志名保持愛如生數據庫的原樣。例如“（乾隆）湖南通志174卷”。"
	UploadLabel     = "請上傳xlsx文件:"
	AlphaLabel      = "設置坐標點透明度（調低透明度可看見被覆蓋的重疊區域）："
	DefaultAlpha    = 1.0
	alphaStepsCount = 11
)

// State is where the page is in its single interaction loop.
type State int

const (
	// AwaitingUpload shows the form only, possibly with a warning.
	AwaitingUpload State = iota
	// Rendered shows the chart and the enriched table.
	Rendered
)

func (s State) String() string {
	switch s {
	case AwaitingUpload:
		return "awaiting_upload"
	case Rendered:
		return "rendered"
	}

	return "unknown"
}

// AlphaOption is one stop of the transparency slider.
type AlphaOption struct {
	Value    string
	Selected bool
}

// AlphaOptions returns the slider stops 0.0 to 1.0, marking the one
// closest to alpha.
func AlphaOptions(alpha float64) []AlphaOption {
	options := make([]AlphaOption, alphaStepsCount)
	selected := int(alpha*10 + 0.5)

	for i := range options {
		options[i] = AlphaOption{
			Value:    formatAlpha(float64(i) / 10),
			Selected: i == selected,
		}
	}

	return options
}

func formatAlpha(alpha float64) string {
	return strconv.FormatFloat(alpha, 'f', 1, 64)
}

// View is the data behind index.html and result.html.
type View struct {
	State State
	Alpha float64

	// Warning is shown for a sheet without a title column.
	Warning string
	// Error is shown when the upload was rejected.
	Error string

	Label      string
	ChartTitle string
	Image      template.URL

	Columns []string
	Rows    [][]string
	Summary *gazetteer.Summary

	RenderID string
}

// Labels used by the templates.
func (v *View) PageTitle() string   { return PageTitle }
func (v *View) IntroText() string   { return IntroText }
func (v *View) NoteText() string    { return NoteText }
func (v *View) UploadLabel() string { return UploadLabel }
func (v *View) AlphaLabel() string  { return AlphaLabel }

// AlphaValue is the current slider value as shown on the page.
func (v *View) AlphaValue() string {
	return formatAlpha(v.Alpha)
}

// Alphas returns the slider stops.
func (v *View) Alphas() []AlphaOption {
	return AlphaOptions(v.Alpha)
}

// Rendered reports whether there is a chart to show.
func (v *View) Rendered() bool {
	return v.State == Rendered
}

// SummaryText is the one-line match report under the table.
func (v *View) SummaryText() string {
	if v.Summary == nil {
		return ""
	}

	return fmt.Sprintf("共%d行，匹配%d行，未匹配%d行", v.Summary.Rows, v.Summary.Matched, v.Summary.Unmatched)
}

func newView() *View {
	return &View{State: AwaitingUpload, Alpha: DefaultAlpha}
}
