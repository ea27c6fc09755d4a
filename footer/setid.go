/*
Package footer implements the sticker and emoji selection footer: a
horizontally scrollable strip of set icons with an expandable
all-emoji cell whose sub-icons scroll on their own axis.

The controller owns all geometry, selection, drag and wheel handling,
and animation. It paints through render.Surface and publishes chosen
sets through event streams, so it carries no toolkit dependency.
*/
package footer

// SetID identifies one selectable cell: a sticker set, a special
// collection, or an emoji section.
type SetID uint64

// Special collection IDs. They live at the top of the ID space where
// server-issued set IDs never reach.
const (
	// FavedSetID is the user's faved stickers collection.
	FavedSetID SetID = 0xFFFFFFFFFFFFFFFF
	// RecentSetID is the recently used stickers collection.
	RecentSetID SetID = 0xFFFFFFFFFFFFFFFE
	// FeaturedSetID is the featured-sets placeholder collection.
	FeaturedSetID SetID = 0xFFFFFFFFFFFFFFFB
)

// emojiSectionSetIDBase anchors the emoji-section ID range. The
// all-emoji cell uses the base itself; sections follow at base+1+n.
const emojiSectionSetIDBase SetID = 0x77FFFFFFFFFFFFF0

// Section enumerates the built-in emoji categories.
type Section int

// Emoji sections in strip order. Recent is special: it selects its
// own cell rather than a sub-icon of the all-emoji cell.
const (
	SectionRecent Section = iota
	SectionPeople
	SectionNature
	SectionFood
	SectionActivity
	SectionTravel
	SectionObjects
	SectionSymbols
)

// subiconCount is how many sections expand inside the all-emoji cell.
const subiconCount = int(SectionSymbols-SectionPeople) + 1

// AllEmojiSetID is the expandable cell hosting the section sub-icons.
func AllEmojiSetID() SetID {
	return emojiSectionSetIDBase
}

// EmojiSectionSetID maps a section to its set ID.
func EmojiSectionSetID(s Section) SetID {
	return emojiSectionSetIDBase + SetID(s) + 1
}

// SetIDEmojiSection inverts EmojiSectionSetID. ok is false for IDs
// outside the section range, including AllEmojiSetID.
func SetIDEmojiSection(id SetID) (Section, bool) {
	base := EmojiSectionSetID(SectionRecent)
	if id < base {
		return 0, false
	}
	index := id - base
	if index > SetID(SectionSymbols) {
		return 0, false
	}
	return Section(index), true
}
