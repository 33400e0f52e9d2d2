package overlay

import (
	"go.uber.org/zap"

	"nadecast/pkg/charmodel"
	"nadecast/pkg/math3d"
)

// DefaultModelFile is the skinned mesh drawn over players when chams are
// enabled.
const DefaultModelFile = "character.glb"

const skeletonThickness = 1.5

// PlayerOverlay draws opposing players, either as a shaded skinned model
// (chams) or as a line skeleton. Model loads are attempted once per file;
// a failed load is remembered and the overlay degrades to the skeleton.
type PlayerOverlay struct {
	lg *zap.Logger

	Chams     bool
	Skeleton  bool
	ModelFile string
	Color     math3d.RGBA

	// nil entry = load failed, do not retry.
	models map[string]*charmodel.CharacterModel
}

// NewPlayerOverlay returns an overlay with chams enabled on the default
// model.
func NewPlayerOverlay(lg *zap.Logger) *PlayerOverlay {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &PlayerOverlay{
		lg:        lg,
		Chams:     true,
		ModelFile: DefaultModelFile,
		Color:     math3d.RGBA{R: 0.9, G: 0.4, B: 0.1, A: 0.85},
		models:    make(map[string]*charmodel.CharacterModel),
	}
}

// Render reads the provider fresh and draws every player. Each player's
// bone state is consumed within this call only.
func (o *PlayerOverlay) Render(draw DrawList, view *View, provider Provider) {
	if !o.Chams && !o.Skeleton {
		return
	}
	for _, player := range provider.Players() {
		if player.Health <= 0 {
			continue
		}
		o.renderPlayer(draw, view, &player)
	}
}

func (o *PlayerOverlay) renderPlayer(draw DrawList, view *View, player *PlayerState) {
	drewModel := false
	if o.Chams {
		if model := o.model(o.ModelFile); model != nil {
			_, _, drewModel = model.Render(draw, view, player.BoneTransforms(), o.Color)
		} else {
			// Model unavailable; the skeleton keeps the player visible.
			o.drawSkeleton(draw, view, player, o.Color.Opaque())
		}
	}
	if o.Skeleton && !drewModel {
		o.drawSkeleton(draw, view, player, o.Color.Opaque())
	}
}

func (o *PlayerOverlay) drawSkeleton(draw DrawList, view *View, player *PlayerState, c math3d.RGBA) {
	for i := range player.Bones {
		bone := &player.Bones[i]
		if !bone.Hitbox {
			continue
		}
		if bone.Parent < 0 || bone.Parent >= len(player.Bones) {
			continue
		}
		parent := &player.Bones[bone.Parent]
		a, okA := view.WorldToScreen(parent.Position)
		b, okB := view.WorldToScreen(bone.Position)
		if okA && okB {
			draw.Line(a, b, c, skeletonThickness)
		}
	}
}

// model returns the cached model for the file, loading it on first use.
func (o *PlayerOverlay) model(file string) *charmodel.CharacterModel {
	if model, seen := o.models[file]; seen {
		return model
	}
	model, err := charmodel.Load(file, o.lg)
	if err != nil {
		o.lg.Warn("character model unavailable, falling back to skeleton",
			zap.String("file", file), zap.Error(err))
		model = nil
	}
	o.models[file] = model
	return model
}
