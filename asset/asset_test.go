package asset

import (
	"image"
	"testing"
)

func solid(w, h int) image.Image {
	return image.NewNRGBA(image.Rect(0, 0, w, h))
}

func TestBestImageResolutionOrder(t *testing.T) {
	for _, tc := range []struct {
		name    string
		tiers   []Tier
		want    Tier
		blurred bool
	}{
		{"empty", nil, TierNone, false},
		{"inline only", []Tier{TierInline}, TierInline, true},
		{"small over inline", []Tier{TierInline, TierSmall}, TierSmall, true},
		{"thumbnail over small", []Tier{TierSmall, TierThumbnail}, TierThumbnail, true},
		{"large wins", []Tier{TierInline, TierSmall, TierThumbnail, TierLarge}, TierLarge, false},
	} {
		a := New(Info{ID: 1})
		for _, tier := range tc.tiers {
			a.setImage(tier, solid(4, 4))
		}
		tier, img, blurred := a.BestImage()
		if tier != tc.want {
			t.Errorf("%s: best tier = %v, want %v", tc.name, tier, tc.want)
		}
		if (img == nil) != (tc.want == TierNone) {
			t.Errorf("%s: image presence mismatch", tc.name)
		}
		if blurred != tc.blurred {
			t.Errorf("%s: blurred = %v, want %v", tc.name, blurred, tc.blurred)
		}
	}
}

func TestCoverNeverExceedsThumbnail(t *testing.T) {
	a := New(Info{ID: 1, Flags: FlagSong})
	a.setImage(TierLarge, solid(4, 4))
	if tier, _, _ := a.Cover(); tier != TierNone {
		t.Errorf("cover should ignore the large tier, got %v", tier)
	}
	a.setImage(TierInline, solid(2, 2))
	a.setImage(TierThumbnail, solid(4, 4))
	tier, img, blurred := a.Cover()
	if tier != TierThumbnail || img == nil || !blurred {
		t.Errorf("cover = (%v, %v, %v), want blurred thumbnail", tier, img != nil, blurred)
	}
}

func TestHighestTierIsMonotonic(t *testing.T) {
	a := New(Info{ID: 1})
	a.setImage(TierThumbnail, solid(8, 8))
	highest := a.Highest()

	// A late lower-quality completion fills its slot but the best
	// visible representation never regresses.
	a.setImage(TierSmall, solid(4, 4))
	if a.Highest() != highest {
		t.Errorf("highest regressed from %v to %v", highest, a.Highest())
	}
	if best, _, _ := a.BestImage(); best != TierThumbnail {
		t.Errorf("best image regressed to %v", best)
	}

	// Re-publishing a populated tier is ignored.
	replacement := solid(1, 1)
	a.setImage(TierThumbnail, replacement)
	if a.Image(TierThumbnail) == replacement {
		t.Errorf("populated tier must not be replaced")
	}
}

func TestProgressCountersMonotonic(t *testing.T) {
	a := New(Info{ID: 1, Size: 100})
	a.SetLoadProgress(30)
	a.SetLoadProgress(10)
	if a.LoadOffset() != 30 {
		t.Errorf("load offset regressed to %d", a.LoadOffset())
	}
	if got := a.Progress(); got != 0.3 {
		t.Errorf("progress = %f, want 0.3", got)
	}
	a.SetUploading(250)
	if got := a.Progress(); got != 1 {
		t.Errorf("upload progress should clamp to 1, got %f", got)
	}
}

func TestViewSharingAndRelease(t *testing.T) {
	a := New(Info{ID: 1})
	a.setImage(TierThumbnail, solid(8, 8))

	v1 := a.NewView()
	v2 := a.NewView()
	t1, _, _ := v1.Best()
	t2, _, _ := v2.Best()
	if t1 != t2 {
		t.Errorf("views of one asset must observe identical availability: %v vs %v", t1, t2)
	}

	v1.Release()
	v1.Release() // idempotent
	if a.Image(TierThumbnail) == nil {
		t.Errorf("decoded images must survive while a view remains")
	}
	v2.Release()
	if a.Image(TierThumbnail) != nil {
		t.Errorf("releasing the final view must drop decoded images")
	}
}

func TestTableSharesAssets(t *testing.T) {
	table := NewTable()
	a := table.Upsert(Info{ID: 7, Size: 10})
	b := table.Upsert(Info{ID: 7, Size: 99})
	if a != b {
		t.Fatalf("upsert for one id must return one asset")
	}
	if a.Size() != 10 {
		t.Errorf("existing descriptor must not be rewritten, size = %d", a.Size())
	}
	table.Forget(7)
	if _, ok := table.Get(7); ok {
		t.Errorf("forgotten asset still present")
	}
}

func TestVideoPlayability(t *testing.T) {
	a := New(Info{ID: 1, Flags: FlagVideo})
	if !a.VideoCanBePlayed() {
		t.Fatalf("video asset should be playable")
	}
	a.SetPlaybackFailed()
	if a.VideoCanBePlayed() {
		t.Errorf("playback-failed asset must not autoplay again")
	}
}
