package message

// BoardInfoOptions holds the optional board-description attributes shared
// by BoardAvailable and BoardForecast.
type BoardInfoOptions struct {
	FailedBoard            *BoardQuality
	ProductTypeId          *string
	FlippedBoard           *FlippedBoard
	TopBarcode             *string
	BottomBarcode          *string
	Length                 *float64
	Width                  *float64
	Thickness              *float64
	ConveyorSpeed          *float64
	TopClearanceHeight     *float64
	BottomClearanceHeight  *float64
	Weight                 *float64
	WorkOrderId            *string
}

func (o BoardInfoOptions) apply(m *Message) {
	failedBoard := BoardQualityUnknown
	if o.FailedBoard != nil {
		failedBoard = *o.FailedBoard
	}
	flipped := FlippedBoardSideUpUnknown
	if o.FlippedBoard != nil {
		flipped = *o.FlippedBoard
	}
	m.set("ProductTypeId", o.ProductTypeId)
	m.set("FailedBoard", intPtr(int(failedBoard)))
	m.set("FlippedBoard", intPtr(int(flipped)))
	m.set("TopBarcode", o.TopBarcode)
	m.set("BottomBarcode", o.BottomBarcode)
	m.set("Length", floatPtrOf(o.Length))
	m.set("Width", floatPtrOf(o.Width))
	m.set("Thickness", floatPtrOf(o.Thickness))
	m.set("ConveyorSpeed", floatPtrOf(o.ConveyorSpeed))
	m.set("TopClearanceHeight", floatPtrOf(o.TopClearanceHeight))
	m.set("BottomClearanceHeight", floatPtrOf(o.BottomClearanceHeight))
	m.set("Weight", floatPtrOf(o.Weight))
	m.set("WorkOrderId", o.WorkOrderId)
}

func floatPtrOf(f *float64) *string {
	if f == nil {
		return nil
	}
	return floatPtr(*f)
}

// NewBoardAvailable builds a BoardAvailable message. BoardId and
// BoardIdCreatedBy are mandatory.
func NewBoardAvailable(boardId, boardIdCreatedBy string, opts BoardInfoOptions) *Message {
	m := newMessage(TagBoardAvailable)
	m.set("BoardId", strPtr(boardId))
	m.set("BoardIdCreatedBy", strPtr(boardIdCreatedBy))
	opts.apply(m)
	return m
}

// BoardForecastOptions extends BoardInfoOptions with BoardForecast's own
// identifying attributes, all of which are optional.
type BoardForecastOptions struct {
	BoardInfoOptions
	ForecastId          *string
	TimeUntilAvailable  *float64
	BoardId             *string
	BoardIdCreatedBy    *string
}

// NewBoardForecast builds a BoardForecast message; every attribute is
// optional per the original constructor.
func NewBoardForecast(opts BoardForecastOptions) *Message {
	m := newMessage(TagBoardForecast)
	m.set("ForecastId", opts.ForecastId)
	m.set("TimeUntilAvailable", floatPtrOf(opts.TimeUntilAvailable))
	m.set("BoardId", opts.BoardId)
	m.set("BoardIdCreatedBy", opts.BoardIdCreatedBy)
	opts.BoardInfoOptions.apply(m)
	return m
}

// NewRevokeBoardAvailable builds the empty RevokeBoardAvailable message.
func NewRevokeBoardAvailable() *Message {
	return newMessage(TagRevokeBoardAvailable)
}
