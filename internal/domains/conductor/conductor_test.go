package conductor

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"source.hodakov.me/hdkv/mpvtunes/internal/application"
	"source.hodakov.me/hdkv/mpvtunes/internal/configuration"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains"
	coverartdto "source.hodakov.me/hdkv/mpvtunes/internal/domains/coverart/dto"
	librarydto "source.hodakov.me/hdkv/mpvtunes/internal/domains/library/dto"
	playerdto "source.hodakov.me/hdkv/mpvtunes/internal/domains/player/dto"
	stagerdto "source.hodakov.me/hdkv/mpvtunes/internal/domains/stager/dto"
)

type fakeSource struct {
	tracks  []string
	next    int
	played  []string
	summary librarydto.Summary
	closed  bool
}

func (f *fakeSource) Next(context.Context) (*librarydto.Track, error) {
	if f.next >= len(f.tracks) {
		return nil, nil
	}

	track := &librarydto.Track{Path: f.tracks[f.next], Album: filepath.Dir(f.tracks[f.next])}
	f.next++

	return track, nil
}

func (f *fakeSource) Played(track *librarydto.Track) { f.played = append(f.played, track.Path) }
func (f *fakeSource) Summary() librarydto.Summary { return f.summary }

func (f *fakeSource) Close() error {
	f.closed = true

	return nil
}

type fakeLibrary struct {
	source *fakeSource
}

func (f *fakeLibrary) ConnectDependencies() error { return nil }
func (f *fakeLibrary) Start() error { return nil }
func (f *fakeLibrary) AlbumRootForTrack(string) string { return "" }
func (f *fakeLibrary) DisplayRoot() string { return "/music" }
func (f *fakeLibrary) DisplayPath(path string) string { return strings.TrimPrefix(path, "/music/") }

func (f *fakeLibrary) OpenSource(context.Context) (domains.TrackSource, error) {
	return f.source, nil
}

type fakeStager struct {
	mutex   sync.Mutex
	broken  map[string]bool
	cleaned []int
}

func (f *fakeStager) ConnectDependencies() error { return nil }
func (f *fakeStager) Start() error { return nil }
func (f *fakeStager) Root() string { return "/stage" }
func (f *fakeStager) StagedTrack(int) (*stagerdto.StagedTrack, bool) { return nil, false }

func (f *fakeStager) PrepareTrack(_ context.Context, index int, source string) (*stagerdto.StagedTrack, error) {
	if f.broken[source] {
		return nil, errors.New("broken file")
	}

	return &stagerdto.StagedTrack{
		Index:      index,
		SourcePath: source,
		StagedPath: "/stage/" + strconv.Itoa(index) + "/" + filepath.Base(source),
		Cover:      &coverartdto.Selection{Report: "[*] path=cover.jpg res=500x500"},
	}, nil
}

func (f *fakeStager) CleanFinished(upto int) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.cleaned = append(f.cleaned, upto)
}

type load struct {
	path string
	mode playerdto.LoadMode
}

type fakePlayer struct {
	loads     []load
	position  int
	running   bool
	gain      string
	positions []int
}

func (f *fakePlayer) ConnectDependencies() error { return nil }
func (f *fakePlayer) Start() error { return nil }
func (f *fakePlayer) Endpoint() string { return "/tmp/mpv-1.sock" }
func (f *fakePlayer) Running() bool { return f.running }
func (f *fakePlayer) Clear(context.Context) error { return nil }
func (f *fakePlayer) CurrentPath(context.Context) (string, error) { return "", nil }
func (f *fakePlayer) ReplayGain(context.Context) (string, error) { return f.gain, nil }

func (f *fakePlayer) Load(_ context.Context, path string, mode playerdto.LoadMode) error {
	f.loads = append(f.loads, load{path: path, mode: mode})

	return nil
}

// Position replays the scripted positions. The player quits once the script
// runs out.
func (f *fakePlayer) Position(context.Context) (int, bool, error) {
	if len(f.positions) > 0 {
		f.position, f.positions = f.positions[0], f.positions[1:]
	}

	if len(f.positions) == 0 {
		f.running = false
	}

	return f.position, f.position >= 0, nil
}

type testRig struct {
	conductor *Conductor
	source    *fakeSource
	stager    *fakeStager
	player    *fakePlayer
	out       *bytes.Buffer
}

func newTestRig(t *testing.T, tracks []string, mutate func(*configuration.Config)) *testRig {
	t.Helper()

	color.NoColor = true

	cfg := configuration.Default()
	cfg.Mode = configuration.Mode{Kind: configuration.ModeAlbum}
	cfg.Playback.PollIntervalSeconds = 1

	if mutate != nil {
		mutate(cfg)
	}

	app := application.New(context.Background())
	app.SetConfig(cfg)

	rig := &testRig{
		source: &fakeSource{
			tracks:  tracks,
			summary: librarydto.Summary{Mode: configuration.ModeAlbum, Path: "/music/A", Total: len(tracks)},
		},
		stager: &fakeStager{broken: make(map[string]bool)},
		player: &fakePlayer{running: true, position: -1},
		out:    new(bytes.Buffer),
	}

	app.RegisterDomain(domains.LibraryName, &fakeLibrary{source: rig.source})
	app.RegisterDomain(domains.StagerName, rig.stager)
	app.RegisterDomain(domains.PlayerName, rig.player)

	rig.conductor = New(app)
	rig.conductor.out = rig.out

	if err := rig.conductor.ConnectDependencies(); err != nil {
		t.Fatalf("ConnectDependencies: %v", err)
	}

	return rig
}

func (r *testRig) newSession() *session {
	return &session{
		conductor:   r.conductor,
		source:      r.source,
		logger:      r.conductor.app.Logger(),
		bufferAhead: r.conductor.app.Config().Playback.BufferAhead,
		parallel:    2,
		current:     -1,
	}
}

func (r *testRig) loadedPaths() []string {
	paths := make([]string, 0, len(r.player.loads))

	for _, l := range r.player.loads {
		paths = append(paths, l.path)
	}

	return paths
}

func TestFill_FirstLoadReplacesThenAppends(t *testing.T) {
	rig := newTestRig(t, []string{"/music/A/01.flac", "/music/A/02.flac", "/music/A/03.flac"}, func(c *configuration.Config) {
		c.Playback.BufferAhead = 2
	})
	s := rig.newSession()

	appended, err := s.fill(context.Background())
	if err != nil || !appended {
		t.Fatalf("fill() = %v, %v", appended, err)
	}

	want := []load{
		{"/stage/0/01.flac", playerdto.LoadReplace},
		{"/stage/1/02.flac", playerdto.LoadAppendPlay},
	}
	if !slices.Equal(rig.player.loads, want) {
		t.Fatalf("loads = %v, want %v", rig.player.loads, want)
	}

	// Buffer is full until playback moves on.
	appended, _ = s.fill(context.Background())
	if appended {
		t.Error("fill() appended with a full buffer")
	}

	s.current = 0

	appended, _ = s.fill(context.Background())
	if !appended || rig.player.loads[2] != (load{"/stage/2/03.flac", playerdto.LoadAppendPlay}) {
		t.Errorf("loads = %v", rig.player.loads)
	}

	s.current = 2
	appended, _ = s.fill(context.Background())
	if appended || !s.exhausted {
		t.Errorf("expected exhausted source, appended=%v exhausted=%v", appended, s.exhausted)
	}
}

func TestFill_SkipsTracksThatFailToStage(t *testing.T) {
	rig := newTestRig(t, []string{"/music/A/01.flac", "/music/A/bad.flac", "/music/A/03.flac"}, func(c *configuration.Config) {
		c.Playback.BufferAhead = 2
	})
	rig.stager.broken["/music/A/bad.flac"] = true
	s := rig.newSession()

	if _, err := s.fill(context.Background()); err != nil {
		t.Fatal(err)
	}

	want := []string{"/stage/0/01.flac", "/stage/2/03.flac"}
	if got := rig.loadedPaths(); !slices.Equal(got, want) {
		t.Errorf("loaded = %v, want %v", got, want)
	}

	// Playlist positions stay dense even though stage index 1 was skipped.
	if s.entries[1].staged.Index != 2 {
		t.Errorf("entry 1 stage index = %d, want 2", s.entries[1].staged.Index)
	}
}

func TestFill_GivesUpOnUnstageableSource(t *testing.T) {
	tracks := make([]string, 10)
	for i := range tracks {
		tracks[i] = "/music/A/bad" + strconv.Itoa(i) + ".flac"
	}

	rig := newTestRig(t, tracks, func(c *configuration.Config) {
		c.Playback.BufferAhead = 1
	})
	for _, track := range tracks {
		rig.stager.broken[track] = true
	}

	s := rig.newSession()

	appended, err := s.fill(context.Background())
	if err != nil || appended {
		t.Fatalf("fill() = %v, %v", appended, err)
	}

	if rig.source.next != maxFailedBatches {
		t.Errorf("consumed %d tracks, want %d", rig.source.next, maxFailedBatches)
	}
}

func TestPoll_PositionChange(t *testing.T) {
	rig := newTestRig(t, []string{"/music/A/01.flac", "/music/A/02.flac", "/music/A/03.flac"}, nil)
	rig.player.gain = "-3.10 dB"
	s := rig.newSession()

	if _, err := s.fill(context.Background()); err != nil {
		t.Fatal(err)
	}

	rig.player.positions = []int{0, 0, 1}

	for range 3 {
		done, err := s.poll(context.Background())
		if err != nil || done {
			t.Fatalf("poll() = %v, %v", done, err)
		}
	}

	if !slices.Equal(rig.source.played, []string{"/music/A/01.flac", "/music/A/02.flac"}) {
		t.Errorf("played = %v", rig.source.played)
	}

	if !slices.Equal(rig.stager.cleaned, []int{0, 1}) {
		t.Errorf("cleaned = %v", rig.stager.cleaned)
	}

	if got := rig.loadedPaths(); len(got) != 3 {
		t.Errorf("loaded = %v, want all three tracks", got)
	}

	out := rig.out.String()
	if strings.Count(out, "[RG] ReplayGain[track]: -3.10 dB | src: A/01.flac") != 1 {
		t.Errorf("missing report for the first track:\n%s", out)
	}
	if !strings.Contains(out, "[*] path=cover.jpg") {
		t.Errorf("missing cover report:\n%s", out)
	}
}

func TestPoll_IdlePlayerWithExhaustedSourceStops(t *testing.T) {
	rig := newTestRig(t, []string{"/music/A/01.flac"}, nil)
	s := rig.newSession()

	if _, err := s.fill(context.Background()); err != nil {
		t.Fatal(err)
	}

	s.exhausted = true
	rig.player.positions = []int{-1}

	done, err := s.poll(context.Background())
	if err != nil || !done {
		t.Errorf("poll() = %v, %v, want done", done, err)
	}
}

func TestPoll_PlayerExited(t *testing.T) {
	rig := newTestRig(t, []string{"/music/A/01.flac"}, nil)
	rig.player.running = false

	done, err := rig.newSession().poll(context.Background())
	if err != nil || !done {
		t.Errorf("poll() = %v, %v, want done", done, err)
	}
}

func TestRun(t *testing.T) {
	rig := newTestRig(t, []string{"/music/A/01.flac", "/music/A/02.flac"}, nil)
	rig.player.positions = []int{0}

	if err := rig.conductor.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !rig.source.closed {
		t.Error("source was not closed")
	}

	out := rig.out.String()
	if !strings.Contains(out, "🎯 Mode: album") || !strings.Contains(out, "💾 Album: /music/A") {
		t.Errorf("header missing:\n%s", out)
	}

	if got := rig.loadedPaths(); len(got) != 2 {
		t.Errorf("loaded = %v", got)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	rig := newTestRig(t, []string{"/music/A/01.flac"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := rig.conductor.Run(ctx); err != nil {
		t.Fatalf("Run on cancelled context: %v", err)
	}

	if !rig.source.closed {
		t.Error("source was not closed")
	}
}

func TestHumanInterval(t *testing.T) {
	testCases := []struct {
		seconds int
		want    string
	}{
		{0, "off"},
		{-5, "off"},
		{59, "0m"},
		{900, "15m"},
		{3600, "1h00m"},
		{5400, "1h30m"},
		{90061, "25h01m"},
	}

	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			if got := HumanInterval(tc.seconds); got != tc.want {
				t.Errorf("HumanInterval(%d) = %q, want %q", tc.seconds, got, tc.want)
			}
		})
	}
}

func TestHeaderLines(t *testing.T) {
	cfg := configuration.Default()

	spread := headerLines(librarydto.Summary{
		Mode: configuration.ModeRandom, Path: "/music", Total: 5000,
		Albums: 400, AlbumSpread: true, RecentWindow: 40, RescanIntervalSeconds: 3600,
	}, cfg, "/tmp/mpv-1.sock")

	if !slices.Contains(spread, "🔁 I rotate albums, skip the last 40 of 400, and look for new music every 1h00m.") {
		t.Errorf("spread header = %v", spread)
	}
	if !slices.Contains(spread, "💿 Albums: 400") || !slices.Contains(spread, "Normalize: disabled") {
		t.Errorf("spread header = %v", spread)
	}

	cfg.Playback.Normalize = true

	shuffle := headerLines(librarydto.Summary{
		Mode: configuration.ModeRandom, Path: "/music", Total: 30, Albums: 3,
	}, cfg, "/tmp/mpv-1.sock")

	if !slices.Contains(shuffle, "🎲 Single big shuffle (library has < 50 albums).") {
		t.Errorf("shuffle header = %v", shuffle)
	}
	if !slices.Contains(shuffle, "Normalize: enabled (ReplayGain track)") {
		t.Errorf("shuffle header = %v", shuffle)
	}

	playlist := headerLines(librarydto.Summary{Mode: configuration.ModePlaylist, Path: "/l.m3u", Total: 2}, cfg, "s")
	if slices.Contains(playlist, "💿 Albums: 0") || !slices.Contains(playlist, "📜 Mode: playlist") {
		t.Errorf("playlist header = %v", playlist)
	}
}

func TestRenderBox(t *testing.T) {
	color.NoColor = true

	box := renderBox([]string{"🎵 title 🎵", headerSeparator, "a much longer line", "short"})
	rows := strings.Split(strings.TrimSuffix(box, "\n"), "\n")

	if len(rows) != 6 {
		t.Fatalf("rows = %d:\n%s", len(rows), box)
	}

	width := runewidth.StringWidth(rows[0])
	for _, row := range rows {
		if got := runewidth.StringWidth(row); got != width {
			t.Errorf("row %q has width %d, want %d", row, got, width)
		}
	}

	if !strings.HasPrefix(rows[1], "║    🎵 title 🎵") {
		t.Errorf("title is not centred: %q", rows[1])
	}
	if !strings.HasPrefix(rows[2], "╟─") || !strings.HasPrefix(rows[5], "╚═") {
		t.Errorf("unexpected frame:\n%s", box)
	}
}

func TestFormatReport(t *testing.T) {
	color.NoColor = true

	report := formatReport("", "A/01.flac", "")

	want := "\n[RG] ReplayGain[track]: (no RG track gain reported) | src: A/01.flac\n" +
		"[ART] candidates:\n[ ] no images found\n" + strings.Repeat("-", 40) + "\n"
	if report != want {
		t.Errorf("report = %q\nwant %q", report, want)
	}
}
