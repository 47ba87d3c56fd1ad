package actiondata

import "github.com/GriffinCanCode/gazeweb/internal/gaze"

// Coordinates flowing through the pointing pipelines.
var (
	RawCoordinate       = NewKey[gaze.Point]("RawCoordinate")
	CorrectedCoordinate = NewKey[gaze.Point]("CorrectedCoordinate")
	PredictedCoordinate = NewKey[gaze.Point]("PredictedCoordinate")
	ZoomedCoordinate    = NewKey[gaze.Point]("ZoomedCoordinate")
	PageCoordinate      = NewKey[gaze.Point]("PageCoordinate")
)

// Magnifier state.
var (
	MagnifierOrigin = NewKey[gaze.Point]("MagnifierOrigin")
	ZoomFactor      = NewKey[float64]("ZoomFactor")
	MagnifierActive = NewKey[bool]("MagnifierActive")
)

// Drift correction.
var CalibrationTarget = NewKey[gaze.Point]("CalibrationTarget")

// Target element chosen by a trigger or a disambiguation menu.
var (
	TargetElementID  = NewKey[string]("TargetElementID")
	TargetCoordinate = NewKey[gaze.Point]("TargetCoordinate")
	TargetURL        = NewKey[string]("TargetURL")
	TargetKind       = NewKey[string]("TargetKind")
	ChosenIndex      = NewKey[int]("ChosenIndex")
)

// Text entry and selection.
var (
	Text           = NewKey[string]("Text")
	Submit         = NewKey[bool]("Submit")
	SelectionStart = NewKey[gaze.Point]("SelectionStart")
	SelectionEnd   = NewKey[gaze.Point]("SelectionEnd")
	SelectedOption = NewKey[int]("SelectedOption")
)

// Dialogs, scrolling and keys.
var (
	DialogAccept = NewKey[bool]("DialogAccept")
	ScrollDelta  = NewKey[float64]("ScrollDelta")
	KeyName      = NewKey[string]("KeyName")
)

// Magnifier placement on screen and the dialog being answered.
var (
	MagnifierScreen = NewKey[gaze.Point]("MagnifierScreen")
	DialogKind      = NewKey[string]("DialogKind")
)
