package footer

import (
	"image"
	"time"

	"github.com/rs/zerolog"

	"git.sr.ht/~gioverse/media/anim"
	"git.sr.ht/~gioverse/media/event"
	"git.sr.ht/~gioverse/media/heavy"
)

// slideDuration paces the all-emoji cell width animation.
const slideDuration = 200 * time.Millisecond

// Config wires the controller to its host.
type Config struct {
	// Width of the footer in pixels.
	Width int
	// Height of the footer row. Defaults to 48.
	Height int
	// IconWidth is the single-cell width. Defaults to 44.
	IconWidth int
	// IconsSkip pads the strip edges. Defaults to 4.
	IconsSkip int
	// DragThreshold is the press-to-drag distance. Defaults to 10.
	DragThreshold int

	// SearchVisible reserves a search cell left of the strip.
	SearchVisible bool
	// SettingsVisible reserves a settings cell right of the strip.
	SettingsVisible bool

	// Invalidate requests a repaint. May be nil.
	Invalidate func()
	// AnimationsDisabled finishes every animation instantly.
	AnimationsDisabled bool
	// Now is the animation clock. Defaults to time.Now.
	Now func() time.Time
	// Registry tracks the strip's heavy renderers. May be nil.
	Registry *heavy.Registry
	// Log receives selection diagnostics. Defaults to disabled.
	Log zerolog.Logger
}

// IconInfo is the placement of one cell during enumeration.
type IconInfo struct {
	Index int
	// Left is the cell offset in strip coordinates.
	Left int
	// AdjustedLeft is Left shifted into view coordinates by the
	// current scroll offset.
	AdjustedLeft int
	Width        int
	// Visible reports any overlap with the viewport.
	Visible bool
}

type overKind uint8

const (
	overNone overKind = iota
	overSearch
	overSettings
	overIcon
)

// overState identifies what the pointer is over: nothing, a special
// cell, or an icon cell with an optional sub-icon index.
type overState struct {
	kind     overKind
	index    int
	subindex int
}

// SearchRequest is one search-box interaction.
type SearchRequest struct {
	Text   string
	Forced bool
}

// Controller owns the footer strip state: icons, the two scroll axes,
// selection, input and events. All methods run on the UI goroutine.
type Controller struct {
	cfg     Config
	icons   []Icon
	factory RendererFactory

	iconsLeft  int
	iconsRight int
	// singleWidth is the uniform cell width; the all-emoji cell
	// animates between it and subiconsWidth.
	singleWidth      int
	subiconsWidth    int
	subiconsExpanded bool

	subiconsWidthValue anim.Value
	widthDriver        *anim.Driver

	iconState    *scrollState
	subiconState *scrollState

	selected  overState
	pressed   overState
	mousePos  image.Point
	mouseDown image.Point

	searchShown    bool
	activeByScroll SetID

	heavyID heavy.ID

	setChosen    event.Stream
	openSettings event.Stream
	searchReq    event.Stream
}

// NewController builds a footer over the given geometry.
func NewController(cfg Config) *Controller {
	if cfg.Height == 0 {
		cfg.Height = 48
	}
	if cfg.IconWidth == 0 {
		cfg.IconWidth = 44
	}
	if cfg.IconsSkip == 0 {
		cfg.IconsSkip = 4
	}
	if cfg.DragThreshold == 0 {
		cfg.DragThreshold = 10
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	cfg.Log = cfg.Log.With().Str("component", "footer").Logger()

	c := &Controller{cfg: cfg}
	c.iconsLeft = cfg.IconsSkip
	if cfg.SearchVisible {
		c.iconsLeft += cfg.IconWidth
	}
	c.iconsRight = cfg.IconsSkip
	if cfg.SettingsVisible {
		c.iconsRight += cfg.IconWidth
	}
	c.singleWidth = cfg.IconWidth
	c.subiconsWidthValue = anim.Rest(float64(c.singleWidth))
	c.widthDriver = &anim.Driver{
		Duration:   slideDuration,
		Invalidate: c.invalidate,
		Disabled:   cfg.AnimationsDisabled,
	}
	c.widthDriver.Add(&c.subiconsWidthValue, anim.EaseOutCubic)
	c.iconState = newScrollState(c.invalidate, cfg.AnimationsDisabled)
	c.subiconState = newScrollState(c.invalidate, cfg.AnimationsDisabled)
	return c
}

func (c *Controller) invalidate() {
	if c.cfg.Invalidate != nil {
		c.cfg.Invalidate()
	}
}

func (c *Controller) now() time.Time { return c.cfg.Now() }

// SetChosen emits the chosen SetID after a click resolves.
func (c *Controller) SetChosen() *event.Stream { return &c.setChosen }

// OpenSettingsRequests emits when the settings cell is pressed.
func (c *Controller) OpenSettingsRequests() *event.Stream { return &c.openSettings }

// SearchRequests emits SearchRequest values from SubmitSearch.
func (c *Controller) SearchRequests() *event.Stream { return &c.searchReq }

// SubmitSearch publishes a search interaction from the host's input
// field.
func (c *Controller) SubmitSearch(text string, forced bool) {
	c.searchReq.Emit(SearchRequest{Text: text, Forced: forced})
}

// SearchShown reports whether the search cell toggled the strip away.
func (c *Controller) SearchShown() bool { return c.searchShown }

// CancelSearch restores the icon strip.
func (c *Controller) CancelSearch() {
	if c.searchShown {
		c.searchShown = false
		c.invalidate()
	}
}

// SelectedIcon reports the selected cell index, -1 when none.
func (c *Controller) SelectedIcon() int { return c.iconState.selected }

// SelectedSubicon reports the selected sub-icon index.
func (c *Controller) SelectedSubicon() int { return c.subiconState.selected }

// Tick advances all animations. It reports whether another frame is
// wanted.
func (c *Controller) Tick(now time.Time) bool {
	animating := false
	if c.widthDriver.Animating() {
		if c.widthDriver.Tick(now) {
			animating = true
		}
		c.updateEmojiWidth()
	}
	if c.iconState.driver.Tick(now) {
		animating = true
	}
	if c.subiconState.driver.Tick(now) {
		animating = true
	}
	return animating
}

// enumerateIcons walks the strip cells left to right, accumulating
// offsets. The all-emoji cell contributes its animated width.
func (c *Controller) enumerateIcons(cb func(IconInfo) bool) {
	left := 0
	shift := c.iconsLeft - c.iconState.current()
	right := c.cfg.Width
	allEmoji := AllEmojiSetID()
	for i := range c.icons {
		w := c.singleWidth
		if c.icons[i].SetID == allEmoji {
			w = roundInt(c.subiconsWidthValue.Current())
		}
		shifted := shift + left
		info := IconInfo{
			Index:        i,
			Left:         left,
			AdjustedLeft: shifted,
			Width:        w,
			Visible:      shifted+w > 0 && shifted < right,
		}
		if !cb(info) {
			return
		}
		left += w
	}
}

// enumerateSubicons walks the emoji sections inside the expanded
// all-emoji cell, in cell-local coordinates.
func (c *Controller) enumerateSubicons(cb func(IconInfo) bool) {
	left := 0
	shift := -c.subiconState.current()
	right := c.subiconsWidth
	for i := 0; i < subiconCount; i++ {
		shifted := shift + left
		info := IconInfo{
			Index:        i,
			Left:         left,
			AdjustedLeft: shifted,
			Width:        c.singleWidth,
			Visible:      shifted+c.singleWidth > 0 && shifted < right,
		}
		if !cb(info) {
			return
		}
		left += c.singleWidth
	}
}

func (c *Controller) enumerateVisibleIcons(cb func(IconInfo)) {
	c.enumerateIcons(func(info IconInfo) bool {
		if info.Visible {
			cb(info)
		} else if info.AdjustedLeft > 0 {
			return false
		}
		return true
	})
}

// IconInfoAt returns the placement of cell index.
func (c *Controller) IconInfoAt(index int) IconInfo {
	var result IconInfo
	c.enumerateIcons(func(info IconInfo) bool {
		if info.Index == index {
			result = info
			return false
		}
		return true
	})
	return result
}

// SubiconInfoAt returns the placement of sub-icon index.
func (c *Controller) SubiconInfoAt(index int) IconInfo {
	var result IconInfo
	c.enumerateSubicons(func(info IconInfo) bool {
		if info.Index == index {
			result = info
			return false
		}
		return true
	})
	return result
}

// RefreshIcons replaces the strip contents. Heavy renderer state moves
// to the new list for cells whose backing sticker is unchanged, so a
// refresh does not restart thumbnail decoding.
func (c *Controller) RefreshIcons(icons []Icon, activeID SetID, factory RendererFactory, animated bool) {
	if factory != nil {
		c.factory = factory
	}
	index := make(map[SetID]int, len(c.icons))
	for i := range c.icons {
		index[c.icons[i].SetID] = i
	}
	for i := range icons {
		j, ok := index[icons[i].SetID]
		if !ok {
			continue
		}
		was := &c.icons[j]
		if was.Sticker == icons[i].Sticker {
			icons[i].renderer = was.renderer
			icons[i].savedFrame = was.savedFrame
			was.renderer = nil
			was.savedFrame = nil
		}
	}
	// Anything left on the old list is dropped with it.
	for i := range c.icons {
		c.icons[i].unload(false)
	}
	c.icons = icons
	c.refreshIconsGeometry(activeID, animated)
}

// SetWidth relays a host resize.
func (c *Controller) SetWidth(width int) {
	if c.cfg.Width == width {
		return
	}
	c.cfg.Width = width
	c.refreshIconsGeometry(c.activeByScroll, false)
}

func (c *Controller) refreshIconsGeometry(activeID SetID, animated bool) {
	c.selected = overState{}
	c.pressed = overState{}
	c.iconState.finish()
	if len(c.icons) > 1 && c.icons[1].SetID == EmojiSectionSetID(SectionPeople) {
		c.singleWidth = (c.cfg.Width - c.iconsLeft - c.iconsRight) / len(c.icons)
	} else {
		c.singleWidth = c.cfg.IconWidth
	}
	c.refreshScrollableDimensions()
	c.refreshSubiconsGeometry()
	c.iconState.selected = -1
	c.subiconState.selected = -1
	c.validateSelectedIcon(activeID, animated)
	c.invalidate()
}

func (c *Controller) refreshScrollableDimensions() {
	if len(c.icons) == 0 {
		c.iconState.max = 0
		c.iconState.clampOffset()
		return
	}
	last := c.IconInfoAt(len(c.icons) - 1)
	c.iconState.max = maxInt(last.Left+last.Width+c.iconsLeft+c.iconsRight-c.cfg.Width, 0)
	c.iconState.clampOffset()
}

func (c *Controller) refreshSubiconsGeometry() {
	c.subiconState.finish()
	half := c.singleWidth / 2
	widthMax := subiconCount * c.singleWidth
	widthMin := 4*c.singleWidth + half
	collapsed := len(c.icons) * c.singleWidth
	c.subiconsWidth = clampInt(c.cfg.Width+c.singleWidth-collapsed, widthMin, widthMax)
	if c.subiconsWidth < widthMax {
		// Snap to a half-cell boundary so a partial trailing section
		// hints at more content.
		c.subiconsWidth = half + ((c.subiconsWidth-half)/c.singleWidth)*c.singleWidth
	}
	c.subiconState.max = maxInt(widthMax-c.subiconsWidth, 0)
	c.subiconState.clampOffset()

	target := c.singleWidth
	if c.subiconsExpanded {
		target = c.subiconsWidth
	}
	c.subiconsWidthValue = anim.Rest(float64(target))
	c.widthDriver.Stop()
	c.updateEmojiWidth()
}

// validateSelectedIcon routes a target set ID to a cell: exact match
// first, then emoji sections onto the all-emoji cell with a sub-index,
// then the faved cell, then cell zero.
func (c *Controller) validateSelectedIcon(setID SetID, animated bool) {
	c.activeByScroll = setID

	faved, newSelected, newSubSelected := -1, -1, -1
	section, isSection := SetIDEmojiSection(setID)
	isEmojiSection := isSection && section != SectionRecent
	allEmoji := AllEmojiSetID()
	for i := range c.icons {
		id := c.icons[i].SetID
		if id == setID || (id == FavedSetID && setID == RecentSetID) {
			newSelected = i
			break
		} else if id == FavedSetID {
			faved = i
		} else if isEmojiSection && id == allEmoji {
			newSelected = i
			newSubSelected = int(setID - EmojiSectionSetID(SectionPeople))
		}
	}
	if newSelected < 0 {
		if faved >= 0 {
			newSelected = faved
		} else {
			newSelected = 0
		}
	}
	if newSubSelected < 0 {
		newSubSelected = 0
	}
	c.setSelectedIcon(newSelected, animated)
	c.setSelectedSubicon(newSubSelected, animated)
}

func (c *Controller) setSelectedIcon(newSelected int, animated bool) {
	if c.iconState.selected == newSelected {
		return
	}
	c.iconState.selected = newSelected
	c.updateEmojiSectionWidth()
	info := c.IconInfoAt(newSelected)
	settle(&c.iconState.selectionX, info.Left, animated)
	settle(&c.iconState.selectionWidth, info.Width, animated)
	// Center the cell: the offset that puts the midpoint of
	// [left, left+width] at the middle of the viewport, clamped.
	widthForCentering := 2*info.Left + info.Width
	xFinal := clampInt(
		(c.iconsLeft+widthForCentering+c.iconsRight-c.cfg.Width)/2,
		0,
		c.iconState.max,
	)
	if animated {
		c.iconState.scrollTo(xFinal, c.now())
	} else {
		c.iconState.jumpTo(xFinal)
	}
	c.cfg.Log.Debug().Int("icon", newSelected).Int("x", xFinal).Msg("icon selected")
	c.updateSelected()
	c.invalidate()
}

func (c *Controller) setSelectedSubicon(newSelected int, animated bool) {
	if c.subiconState.selected == newSelected {
		return
	}
	c.subiconState.selected = newSelected
	info := c.SubiconInfoAt(newSelected)
	widthForCentering := 2*info.Left + info.Width
	xFinal := clampInt(
		(widthForCentering-c.subiconsWidth)/2,
		0,
		c.subiconState.max,
	)
	if animated {
		c.subiconState.scrollTo(xFinal, c.now())
	} else {
		c.subiconState.jumpTo(xFinal)
	}
	c.updateSelected()
	c.invalidate()
}

// updateEmojiSectionWidth starts the all-emoji cell expanding or
// collapsing when its selection state flips.
func (c *Controller) updateEmojiSectionWidth() {
	sel := c.iconState.selected
	expanded := sel >= 0 && sel < len(c.icons) &&
		c.icons[sel].SetID == AllEmojiSetID()
	if c.subiconsExpanded == expanded {
		return
	}
	c.subiconsExpanded = expanded
	target := c.singleWidth
	if expanded {
		target = c.subiconsWidth
	}
	c.subiconsWidthValue.Start(float64(target))
	c.widthDriver.Start(c.now())
	c.updateEmojiWidth()
}

// updateEmojiWidth recomputes geometry that depends on the animating
// all-emoji width: scroll bounds and the selection extent, which is
// retargeted without restarting the selection clock.
func (c *Controller) updateEmojiWidth() {
	c.refreshScrollableDimensions()
	if sel := c.iconState.selected; sel >= 0 && sel < len(c.icons) {
		info := c.IconInfoAt(sel)
		retarget(&c.iconState.selectionX, info.Left)
		retarget(&c.iconState.selectionWidth, info.Width)
	}
}

func (c *Controller) hasOnlyFeaturedSets() bool {
	return len(c.icons) == 1 && c.icons[0].SetID == FeaturedSetID
}

// Press routes a pointer press at pt in footer coordinates.
func (c *Controller) Press(pt image.Point) {
	c.mousePos = pt
	c.updateSelected()
	switch c.selected.kind {
	case overSettings:
		c.openSettings.Emit(struct{}{})
	case overSearch:
		c.searchShown = true
		c.invalidate()
	default:
		c.pressed = c.selected
		c.mouseDown = pt
		c.iconState.draggingStartX = c.iconState.current()
		c.subiconState.draggingStartX = c.subiconState.current()
	}
}

// Move routes a pointer move. Past the drag threshold it starts
// dragging the axis the pressed cell belongs to.
func (c *Controller) Move(pt image.Point) {
	c.mousePos = pt
	c.updateSelected()
	if !c.iconState.dragging && !c.subiconState.dragging &&
		len(c.icons) > 0 && c.pressed.kind == overIcon {
		d := pt.Sub(c.mouseDown)
		if absInt(d.X)+absInt(d.Y) >= c.cfg.DragThreshold {
			if c.icons[c.pressed.index].SetID == AllEmojiSetID() {
				c.subiconState.dragging = true
			} else {
				c.iconState.dragging = true
			}
		}
	}
	c.checkDragging(c.iconState)
	c.checkDragging(c.subiconState)
}

func (c *Controller) checkDragging(s *scrollState) {
	if !s.dragging {
		return
	}
	newX := clampInt(c.mouseDown.X-c.mousePos.X+s.draggingStartX, 0, s.max)
	if newX != s.current() {
		s.jumpTo(newX)
		c.invalidate()
	}
}

// Release routes a pointer release. A release that neither dragged nor
// left the pressed cell chooses that cell's set.
func (c *Controller) Release(pt image.Point) {
	if len(c.icons) == 0 {
		return
	}
	wasDown := c.pressed
	c.pressed = overState{}
	c.mousePos = pt
	if c.finishDragging() {
		return
	}
	c.updateSelected()
	if wasDown != c.selected || c.selected.kind != overIcon {
		return
	}
	info := c.IconInfoAt(c.selected.index)
	c.iconState.selectionX = anim.Rest(float64(info.Left))
	c.iconState.selectionWidth = anim.Rest(float64(info.Width))
	id := c.icons[c.selected.index].SetID
	if id == AllEmojiSetID() {
		id = EmojiSectionSetID(SectionPeople + Section(c.selected.subindex))
	}
	c.setChosen.Emit(id)
}

func (c *Controller) finishDragging() bool {
	icon := c.finishDraggingState(c.iconState)
	subicon := c.finishDraggingState(c.subiconState)
	return icon || subicon
}

func (c *Controller) finishDraggingState(s *scrollState) bool {
	if !s.dragging {
		return false
	}
	newX := clampInt(s.draggingStartX+c.mouseDown.X-c.mousePos.X, 0, s.max)
	if newX != s.current() {
		s.jumpTo(newX)
		c.invalidate()
	}
	s.dragging = false
	c.updateSelected()
	return true
}

// Wheel scrolls one axis by the pointer wheel delta, consuming only
// the delta that fits within bounds. The excess is dropped, never
// overshot and snapped back.
func (c *Controller) Wheel(deltaX, deltaY int) {
	if len(c.icons) == 0 || c.selected.kind != overIcon || c.pressed.kind != overNone {
		return
	}
	if deltaX == 0 && deltaY == 0 {
		return
	}
	delta := deltaY
	if deltaX != 0 {
		delta = deltaX
	}
	state := c.iconState
	if c.subiconsExpanded && c.icons[c.selected.index].SetID == AllEmojiSetID() {
		state = c.subiconState
	}
	now := state.current()
	used := now - delta
	next := clampInt(used, 0, state.max)
	if next != now {
		state.jumpTo(next)
		c.updateSelected()
		c.invalidate()
	}
}

// updateSelected maps the pointer position to a cell, routing the
// residual offset inside the all-emoji cell to a sub-icon index.
func (c *Controller) updateSelected() {
	if c.pressed.kind != overNone {
		return
	}
	x, y := c.mousePos.X, c.mousePos.Y
	inRow := y >= 0 && y < c.cfg.Height
	settingsLeft := c.cfg.Width - c.iconsRight
	searchLeft := c.iconsLeft - c.singleWidth
	newOver := overState{}
	switch {
	case c.cfg.SearchVisible && inRow &&
		x >= searchLeft && x < searchLeft+c.singleWidth:
		newOver = overState{kind: overSearch}
	case c.cfg.SettingsVisible && inRow &&
		x >= settingsLeft && x < settingsLeft+c.singleWidth:
		if len(c.icons) > 0 && !c.hasOnlyFeaturedSets() {
			newOver = overState{kind: overSettings}
		}
	case len(c.icons) > 0 && inRow &&
		x >= c.iconsLeft && x < c.cfg.Width-c.iconsRight:
		c.enumerateIcons(func(info IconInfo) bool {
			if x < info.AdjustedLeft || x >= info.AdjustedLeft+info.Width {
				return true
			}
			newOver = overState{kind: overIcon, index: info.Index}
			if c.icons[info.Index].SetID == AllEmojiSetID() {
				subx := x - info.AdjustedLeft
				c.enumerateSubicons(func(sub IconInfo) bool {
					if subx >= sub.AdjustedLeft && subx < sub.AdjustedLeft+sub.Width {
						newOver.subindex = sub.Index
						return false
					}
					return true
				})
			}
			return false
		})
	}
	c.selected = newOver
}

// ClearHeavyData drops every icon's renderer, keeping the saved frame
// only for icons currently on screen.
func (c *Controller) ClearHeavyData() {
	c.enumerateIcons(func(info IconInfo) bool {
		c.icons[info.Index].unload(info.Visible)
		return true
	})
	c.checkHeavy()
}

// HasHeavyPart implements heavy.Part.
func (c *Controller) HasHeavyPart() bool {
	for i := range c.icons {
		if c.icons[i].HasHeavy() {
			return true
		}
	}
	return false
}

// UnloadHeavyPart implements heavy.Part.
func (c *Controller) UnloadHeavyPart() {
	c.ClearHeavyData()
}

func (c *Controller) ensureRenderer(ic *Icon) {
	if ic.renderer != nil || ic.Sticker == 0 || c.factory == nil {
		return
	}
	ic.renderer = c.factory(ic.Sticker)
	if c.cfg.Registry != nil && !c.cfg.Registry.Registered(c.heavyID) {
		c.heavyID = c.cfg.Registry.Register(c)
	}
}

func (c *Controller) checkHeavy() {
	if c.cfg.Registry != nil && c.heavyID != 0 {
		c.cfg.Registry.Check(c.heavyID)
	}
}

func roundInt(v float64) int {
	if v < 0 {
		return -int(-v + 0.5)
	}
	return int(v + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
