// nadecast - grenade trajectory and player overlay demo.
// Loads a GLB level, predicts grenade arcs against it and draws them,
// together with skinned player models, as a terminal overlay.
//
// Controls:
//
//	G           - Cycle grenade kind
//	1 / 2       - Hold primary / secondary throw trigger
//	C           - Toggle player chams
//	K           - Toggle line skeleton
//	W/S         - Pitch camera
//	A/D         - Yaw camera
//	P           - Save a PNG screenshot
//	Esc         - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"

	"nadecast/pkg/math3d"
	"nadecast/pkg/overlay"
	"nadecast/pkg/render"
	"nadecast/pkg/trajectory"
)

var (
	mapName   = flag.String("map", overlay.AutoMap, "Map to load (name without .glb), or Auto")
	modelFile = flag.String("model", overlay.DefaultModelFile, "Skinned player model file")
	targetFPS = flag.Int("fps", 60, "Target FPS")
	logFile   = flag.String("log", "nadecast.log", "Log file path")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "nadecast - grenade trajectory and player overlay demo\n\n")
		fmt.Fprintf(os.Stderr, "Usage: nadecast [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  G           - Cycle grenade kind\n")
		fmt.Fprintf(os.Stderr, "  1 / 2       - Hold primary / secondary throw trigger\n")
		fmt.Fprintf(os.Stderr, "  C           - Toggle chams\n")
		fmt.Fprintf(os.Stderr, "  K           - Toggle skeleton\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Move camera\n")
		fmt.Fprintf(os.Stderr, "  P           - Save a PNG screenshot\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(path string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}

// demoWorld is a scripted world-state provider: a local player charging a
// throw and a handful of opponents standing around the map origin. The
// overlays read it fresh every frame, same as they would a live source.
type demoWorld struct {
	mapName string

	cameraPos   math3d.Vec3
	pitch       float64
	yaw         float64
	kind        trajectory.Kind
	primary     bool
	secondary   bool
	players     []overlay.PlayerState
	animElapsed float64
}

func newDemoWorld(mapName string) *demoWorld {
	w := &demoWorld{
		mapName:   mapName,
		cameraPos: math3d.V3(0, 0, 64),
		kind:      trajectory.Smoke,
		primary:   true,
	}
	for i := range 3 {
		angle := float64(i) * 2 * math.Pi / 3
		pos := math3d.V3(math.Cos(angle)*300, math.Sin(angle)*300, 0)
		w.players = append(w.players, overlay.PlayerState{
			Position: pos,
			Health:   100,
			Bones:    demoSkeleton(pos),
		})
	}
	return w
}

// demoSkeleton builds a minimal canonical skeleton standing at pos.
func demoSkeleton(pos math3d.Vec3) []overlay.BoneState {
	at := func(name string, parent int, offset math3d.Vec3) overlay.BoneState {
		return overlay.BoneState{
			Name:     name,
			Position: pos.Add(offset),
			Rotation: math3d.QuatIdentity(),
			Parent:   parent,
			Hitbox:   true,
		}
	}
	return []overlay.BoneState{
		at("pelvis", -1, math3d.V3(0, 0, 36)),
		at("spine_1", 0, math3d.V3(0, 0, 44)),
		at("spine_2", 1, math3d.V3(0, 0, 52)),
		at("neck_0", 2, math3d.V3(0, 0, 60)),
		at("head_0", 3, math3d.V3(0, 0, 66)),
		at("arm_upper_L", 2, math3d.V3(0, -8, 56)),
		at("arm_lower_L", 5, math3d.V3(0, -12, 44)),
		at("hand_L", 6, math3d.V3(0, -14, 34)),
		at("arm_upper_R", 2, math3d.V3(0, 8, 56)),
		at("arm_lower_R", 8, math3d.V3(0, 12, 44)),
		at("hand_R", 9, math3d.V3(0, 14, 34)),
		at("leg_upper_L", 0, math3d.V3(0, -4, 28)),
		at("leg_lower_L", 11, math3d.V3(0, -4, 14)),
		at("ankle_L", 12, math3d.V3(0, -4, 2)),
		at("leg_upper_R", 0, math3d.V3(0, 4, 28)),
		at("leg_lower_R", 14, math3d.V3(0, 4, 14)),
		at("ankle_R", 15, math3d.V3(0, 4, 2)),
	}
}

// animate drifts the opponents in a slow circle so the skinning path stays
// exercised.
func (w *demoWorld) animate(dt float64) {
	w.animElapsed += dt
	for i := range w.players {
		base := float64(i) * 2 * math.Pi / 3
		angle := base + w.animElapsed*0.2
		pos := math3d.V3(math.Cos(angle)*300, math.Sin(angle)*300, 0)
		w.players[i].Position = pos
		w.players[i].Bones = demoSkeleton(pos)
	}
}

func (w *demoWorld) MapName() (string, bool) {
	if w.mapName == "" || w.mapName == overlay.AutoMap {
		return "", false
	}
	return w.mapName, true
}

func (w *demoWorld) LocalPlayer() (overlay.LocalPlayer, bool) {
	return overlay.LocalPlayer{
		EyePosition:     w.cameraPos,
		ViewAngles:      math3d.V3(w.pitch, w.yaw, 0),
		Velocity:        math3d.Vec3{},
		FloorZ:          w.cameraPos.Z - 64,
		HoldingGrenade:  true,
		GrenadeKind:     w.kind,
		PrimaryAttack:   w.primary,
		SecondaryAttack: w.secondary,
	}, true
}

func (w *demoWorld) Players() []overlay.PlayerState {
	return w.players
}

func run() error {
	lg, err := newLogger(*logFile)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer lg.Sync()

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	presenter := render.NewPresenter(term, width, height)
	fbWidth, fbHeight := presenter.FramebufferSize()
	fb := render.NewFramebuffer(fbWidth, fbHeight)
	canvas := render.NewCanvas(fb)

	world := newDemoWorld(*mapName)

	trajOverlay := overlay.NewTrajectoryOverlay(lg)
	trajOverlay.SelectedMap = *mapName

	playerOverlay := overlay.NewPlayerOverlay(lg)
	playerOverlay.ModelFile = *modelFile

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Camera angles chase their targets through springs so turning feels
	// smooth at terminal frame rates.
	pitchSpring := harmonica.NewSpring(harmonica.FPS(*targetFPS), 6.0, 1.0)
	yawSpring := harmonica.NewSpring(harmonica.FPS(*targetFPS), 6.0, 1.0)
	var pitchVel, yawVel float64
	targetPitch, targetYaw := 10.0, 0.0

	var screenshot bool

	// Input is applied between frames, never concurrently with rendering:
	// a resize swaps the framebuffer before the next frame touches it.
	events := term.Events()
	handleEvent := func(ev uv.Event) {
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			width, height = ev.Width, ev.Height
			term.Erase()
			term.Resize(width, height)
			presenter = render.NewPresenter(term, width, height)
			fbWidth, fbHeight = presenter.FramebufferSize()
			fb = render.NewFramebuffer(fbWidth, fbHeight)
			canvas = render.NewCanvas(fb)

		case uv.KeyPressEvent:
			switch {
			case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
				cancel()
			case ev.MatchString("g"):
				world.kind = (world.kind + 1) % (trajectory.Unknown + 1)
			case ev.MatchString("1"):
				world.primary = !world.primary
			case ev.MatchString("2"):
				world.secondary = !world.secondary
			case ev.MatchString("c"):
				playerOverlay.Chams = !playerOverlay.Chams
			case ev.MatchString("k"):
				playerOverlay.Skeleton = !playerOverlay.Skeleton
			case ev.MatchString("p"):
				screenshot = true
			case ev.MatchString("w", "up"):
				targetPitch -= 5
			case ev.MatchString("s", "down"):
				targetPitch += 5
			case ev.MatchString("a", "left"):
				targetYaw -= 10
			case ev.MatchString("d", "right"):
				targetYaw += 10
			}
		}
	}

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	targetDuration := time.Second / time.Duration(*targetFPS)
	lastFrame := time.Now()

	for {
	drain:
		for {
			select {
			case <-ctx.Done():
				cleanup()
				return nil
			case ev, ok := <-events:
				if !ok {
					break drain
				}
				handleEvent(ev)
			default:
				break drain
			}
		}

		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		lastFrame = now
		if dt > 0.1 {
			dt = 0.1
		}

		world.pitch, pitchVel = pitchSpring.Update(world.pitch, pitchVel, targetPitch)
		world.yaw, yawVel = yawSpring.Update(world.yaw, yawVel, targetYaw)
		world.animate(dt)

		trajOverlay.Update(world)

		view := overlay.NewView(
			world.cameraPos, world.pitch, world.yaw, 90,
			float64(fbWidth), float64(fbHeight),
		)

		fb.Clear(render.ColorBackground)
		trajOverlay.Render(canvas, view)
		playerOverlay.Render(canvas, view, world)

		if err := presenter.Present(fb); err != nil {
			cleanup()
			return fmt.Errorf("present: %w", err)
		}

		if screenshot {
			screenshot = false
			name := fmt.Sprintf("nadecast-%s.png", now.Format("150405"))
			if err := fb.SavePNG(name); err != nil {
				lg.Warn("screenshot failed", zap.String("file", name), zap.Error(err))
			} else {
				lg.Info("screenshot saved", zap.String("file", name))
			}
		}

		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
