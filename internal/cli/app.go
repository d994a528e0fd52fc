package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/SeamusWaldron/cubelock"
	"github.com/SeamusWaldron/cubelock/internal/audio"
	"github.com/SeamusWaldron/cubelock/internal/backdrop"
	"github.com/SeamusWaldron/cubelock/internal/config"
	"github.com/SeamusWaldron/cubelock/internal/recorder"
	"github.com/SeamusWaldron/cubelock/internal/render"
)

const (
	orbitStep = 15.0 // degrees per arrow press
	minWidth  = 20
	minHeight = 8

	// colorCycle is how often the rain changes color while music plays.
	colorCycle = 500 * time.Millisecond
)

// Preview page text.
const (
	previewTitle   = "Sutakku Records"
	previewMessage = "So I see you figured out the password... lucky you!! Here's a little preview of what's to come on Sutakku Records:"
	trackCredit    = "[schwalbizzy] · Dance Virus - Deep Within"
)

// Colors drawn straight into the canvas.
const (
	hintColor    = "#FFFFFF"
	neonColor    = "#00FF5D"
	messageColor = "#4ADE80"
	creditColor  = "#CCCCCC"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	moveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF5D"))
)

// turnButton is a clickable face turn on the row under the cube.
type turnButton struct {
	label string // long form
	short string // used when the long row does not fit
	key   string // resolver key binding
}

var turnButtons = []turnButton{
	{label: cubelock.LabelRight, short: "R", key: "r"},
	{label: cubelock.LabelLeft, short: "L", key: "l"},
	{label: cubelock.LabelUp, short: "U", key: "u"},
	{label: cubelock.LabelDown, short: "D", key: "d"},
}

// buttonSpan is a laid out button covering columns [x0, x1).
type buttonSpan struct {
	text   string
	key    string
	x0, x1 int
}

// layoutButtons centers the button row in width columns.
func layoutButtons(width int) []buttonSpan {
	build := func(short bool) ([]buttonSpan, int) {
		spans := make([]buttonSpan, 0, len(turnButtons))
		x := 0
		for i, b := range turnButtons {
			if i > 0 {
				x++
			}
			text := "[" + b.label + "]"
			if short {
				text = "[" + b.short + "]"
			}
			spans = append(spans, buttonSpan{text: text, key: b.key, x0: x, x1: x + len(text)})
			x += len(text)
		}
		return spans, x
	}

	spans, total := build(false)
	if total > width {
		spans, total = build(true)
	}
	offset := max((width-total)/2, 0)
	for i := range spans {
		spans[i].x0 += offset
		spans[i].x1 += offset
	}
	return spans
}

type page int

const (
	pageCube page = iota
	pagePreview
)

func (p page) String() string {
	switch p {
	case pageCube:
		return "cube"
	case pagePreview:
		return "preview"
	default:
		return "unknown"
	}
}

// Messages carry the mount they were scheduled for so ticks from a page
// that has since unmounted are dropped.
type frameMsg struct{ mount int }
type rainMsg struct{ mount int }

// appModel is the Bubble Tea model for both pages.
type appModel struct {
	cfg         config.Config
	logger      *log.Logger
	cubeKeys    cubeKeyMap
	previewKeys previewKeyMap
	help        help.Model

	width  int
	height int
	page   page
	mount  int

	// Cube page, rebuilt on every mount
	store     *cubelock.Store
	engine    *cubelock.Engine
	resolver  *cubelock.Resolver
	watcher   *cubelock.Watcher
	scene     *render.Scene
	animating bool
	unlocked  bool
	moves     int
	lastMove  string

	// Owned by whichever page is mounted; nil when the backdrop is off
	rain *backdrop.Rain

	player  *audio.Player
	journal *recorder.Session // nil when the journal is off

	quitting bool
}

func newAppModel(cfg config.Config, logger *log.Logger, journal *recorder.Session, player *audio.Player) *appModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if player == nil {
		player = audio.NewPlayer(audio.Options{Enabled: false, TempoBPM: cfg.Audio.TempoBPM}, logger)
	}

	m := &appModel{
		cfg:         cfg,
		logger:      logger,
		cubeKeys:    defaultCubeKeyMap(),
		previewKeys: defaultPreviewKeyMap(),
		help:        help.New(),
		player:      player,
		journal:     journal,
	}
	m.mountCube()
	return m
}

func (m *appModel) Init() tea.Cmd {
	return m.rainCmd()
}

func (m *appModel) frameCmd() tea.Cmd {
	mount := m.mount
	return tea.Tick(m.cfg.Engine.FrameInterval(), func(time.Time) tea.Msg {
		return frameMsg{mount: mount}
	})
}

func (m *appModel) rainCmd() tea.Cmd {
	if m.rain == nil {
		return nil
	}
	mount := m.mount
	return tea.Tick(m.cfg.Backdrop.Interval(), func(time.Time) tea.Msg {
		return rainMsg{mount: mount}
	})
}

// newRain creates a started backdrop sized for the current screen.
func (m *appModel) newRain() *backdrop.Rain {
	if !m.cfg.Backdrop.Enabled {
		return nil
	}
	every := 1
	if interval := m.cfg.Backdrop.Interval(); interval > 0 {
		every = max(int(colorCycle/interval), 1)
	}
	r := backdrop.New(backdrop.Options{
		Trail:      m.cfg.Backdrop.Trail,
		Density:    m.cfg.Backdrop.Density,
		Mutation:   m.cfg.Backdrop.Mutation,
		ColorEvery: every,
		Seed:       time.Now().UnixNano(),
	})
	r.Resize(m.width, m.canvasHeight())
	r.Start()
	return r
}

func (m *appModel) unmount() {
	if m.rain != nil {
		m.rain.Stop()
		m.rain = nil
	}
	if m.page == pageCube {
		m.endJournal()
	}
	if m.page == pagePreview {
		m.player.Pause()
	}
}

// mountCube shows a fresh solved cube.
func (m *appModel) mountCube() {
	m.unmount()
	m.mount++
	m.page = pageCube

	opts := []cubelock.Option{
		cubelock.WithAnimationSteps(m.cfg.Engine.AnimationSteps),
		cubelock.WithDragThreshold(m.cfg.Input.DragThresholdPx),
		cubelock.WithLogger(m.logger),
	}

	m.store = cubelock.NewStore()
	m.engine = cubelock.NewEngine(m.store, opts...)
	m.scene = render.NewScene(m.store, render.Options{
		Camera: render.Camera{
			FovDeg:   m.cfg.Camera.FovDeg,
			Distance: m.cfg.Camera.Distance,
			YawDeg:   m.cfg.Camera.YawDeg,
			PitchDeg: m.cfg.Camera.PitchDeg,
		},
		CellWidth:  m.cfg.Input.CellWidthPx,
		CellHeight: m.cfg.Input.CellHeightPx,
	})
	m.scene.Resize(m.width, m.canvasHeight())
	m.engine.SetSink(m.scene)
	m.resolver = cubelock.NewResolver(m.engine, m.scene, opts...)
	m.watcher = cubelock.NewWatcher(m.cfg.Secret.Sequence, m.onUnlock)
	m.engine.OnMove(m.onMove)

	m.animating = false
	m.unlocked = false
	m.moves = 0
	m.lastMove = ""
	m.rain = m.newRain()

	m.startJournal()
	m.logger.Debug("page mounted", "page", m.page, "mount", m.mount)
}

// mountPreview shows the unlocked preview page.
func (m *appModel) mountPreview() {
	m.unmount()
	m.mount++
	m.page = pagePreview
	m.rain = m.newRain()
	m.player.Init()
	m.logger.Debug("page mounted", "page", m.page, "mount", m.mount)
}

func (m *appModel) startJournal() {
	if m.journal == nil {
		return
	}
	if _, err := m.journal.Start(version); err != nil {
		m.logger.Warn("journal session not started", "error", err)
	}
}

func (m *appModel) endJournal() {
	if m.journal == nil || m.journal.State() != recorder.StateRecording {
		return
	}
	if err := m.journal.End(); err != nil {
		m.logger.Warn("journal session not closed", "error", err)
	}
}

func (m *appModel) onMove(mv cubelock.Move) {
	m.moves++
	m.lastMove = mv.Label()
	if m.journal != nil {
		if err := m.journal.RecordMove(mv); err != nil {
			m.logger.Warn("move not journaled", "error", err)
		}
	}
	m.watcher.Observe(mv)
}

func (m *appModel) onUnlock() {
	m.unlocked = true
	m.logger.Info("secret sequence entered", "moves", m.moves)
	if m.journal != nil {
		if err := m.journal.MarkUnlocked(m.watcher.Secret()); err != nil {
			m.logger.Warn("unlock not journaled", "error", err)
		}
	}
}

// startFrames schedules animation frames if a turn was just accepted.
func (m *appModel) startFrames() tea.Cmd {
	if m.animating || !m.engine.Busy() {
		return nil
	}
	m.animating = true
	return m.frameCmd()
}

// canvasHeight is the screen minus the status line, the help view and,
// on the cube page, the button row.
func (m *appModel) canvasHeight() int {
	if m.page == pagePreview {
		return max(m.height-1-lipgloss.Height(m.help.View(m.previewKeys)), 0)
	}
	return max(m.height-2-lipgloss.Height(m.help.View(m.cubeKeys)), 0)
}

// buttonRow is the screen row of the turn buttons.
func (m *appModel) buttonRow() int {
	return m.canvasHeight()
}

// relayout fits the scene and the rain to the canvas.
func (m *appModel) relayout() {
	if m.scene != nil {
		m.scene.Resize(m.width, m.canvasHeight())
	}
	if m.rain != nil {
		m.rain.Resize(m.width, m.canvasHeight())
	}
}

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.relayout()
		return m, nil

	case frameMsg:
		if msg.mount != m.mount || m.page != pageCube {
			return m, nil
		}
		m.engine.Advance()
		if m.unlocked {
			m.mountPreview()
			return m, m.rainCmd()
		}
		if m.engine.Busy() {
			return m, m.frameCmd()
		}
		m.animating = false
		return m, nil

	case rainMsg:
		if msg.mount != m.mount || m.rain == nil {
			return m, nil
		}
		m.rain.Tick()
		return m, m.rainCmd()

	case tea.MouseMsg:
		if m.page != pageCube {
			return m, nil
		}
		return m, m.updateMouse(msg)

	case tea.KeyMsg:
		if m.page == pagePreview {
			return m, m.updatePreviewKey(msg)
		}
		return m, m.updateCubeKey(msg)
	}

	return m, nil
}

func (m *appModel) updateMouse(msg tea.MouseMsg) tea.Cmd {
	p := m.scene.CellToScreen(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		if msg.Y == m.buttonRow() {
			return m.clickButton(msg.X)
		}
		if msg.Y < m.canvasHeight() {
			m.resolver.PointerDown(p)
		}
	case tea.MouseActionMotion:
		if _, ok := m.resolver.PointerMove(p); ok {
			return m.startFrames()
		}
	case tea.MouseActionRelease:
		m.resolver.PointerUp()
	}
	return nil
}

// clickButton turns the face under column x, if any.
func (m *appModel) clickButton(x int) tea.Cmd {
	for _, b := range layoutButtons(m.width) {
		if x >= b.x0 && x < b.x1 {
			m.resolver.KeyPress(b.key)
			return m.startFrames()
		}
	}
	return nil
}

func (m *appModel) updateCubeKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.cubeKeys.Quit):
		return m.quit()
	case key.Matches(msg, m.cubeKeys.Turn):
		m.resolver.KeyPress(msg.String())
		return m.startFrames()
	case key.Matches(msg, m.cubeKeys.OrbitLeft):
		m.scene.Orbit(-orbitStep, 0)
	case key.Matches(msg, m.cubeKeys.OrbitRight):
		m.scene.Orbit(orbitStep, 0)
	case key.Matches(msg, m.cubeKeys.OrbitUp):
		m.scene.Orbit(0, orbitStep)
	case key.Matches(msg, m.cubeKeys.OrbitDown):
		m.scene.Orbit(0, -orbitStep)
	case key.Matches(msg, m.cubeKeys.ResetCamera):
		m.scene.SetCamera(render.Camera{
			FovDeg:   m.cfg.Camera.FovDeg,
			Distance: m.cfg.Camera.Distance,
			YawDeg:   m.cfg.Camera.YawDeg,
			PitchDeg: m.cfg.Camera.PitchDeg,
		})
	case key.Matches(msg, m.cubeKeys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.relayout()
	}
	return nil
}

func (m *appModel) updatePreviewKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.previewKeys.Quit):
		return m.quit()
	case key.Matches(msg, m.previewKeys.Play):
		playing := m.player.Toggle()
		if m.rain != nil {
			m.rain.SetPlaying(playing)
		}
	case key.Matches(msg, m.previewKeys.Back):
		m.mountCube()
		return m.rainCmd()
	}
	return nil
}

func (m *appModel) quit() tea.Cmd {
	m.unmount()
	m.player.Close()
	m.quitting = true
	return tea.Quit
}

func (m *appModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width < minWidth || m.height < minHeight {
		return errorStyle.Render("Terminal too small")
	}

	c := render.NewCanvas(m.width, m.canvasHeight())
	if m.rain != nil {
		paintRain(c, m.rain)
	}

	var footer string
	if m.page == pagePreview {
		m.drawPreview(c)
		footer = m.previewStatus() + "\n" + m.help.View(m.previewKeys)
	} else {
		m.scene.Draw(c)
		m.scene.DrawHint(c, m.cfg.Secret.Hint, hintColor)
		footer = m.buttonBar() + "\n" + m.cubeStatus() + "\n" + m.help.View(m.cubeKeys)
	}

	return c.Render() + "\n" + footer
}

func paintRain(c *render.Canvas, r *backdrop.Rain) {
	w, h := c.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if g, ok := r.Cell(x, y); ok {
				c.Set(x, y, render.Cell{Char: g.Char, FG: g.Color})
			}
		}
	}
}

func (m *appModel) buttonBar() string {
	var b strings.Builder
	x := 0
	for _, span := range layoutButtons(m.width) {
		b.WriteString(strings.Repeat(" ", span.x0-x))
		b.WriteString(buttonStyle.Render(span.text))
		x = span.x1
	}
	return b.String()
}

func (m *appModel) cubeStatus() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("cubelock"))
	b.WriteString(statusStyle.Render(fmt.Sprintf("  moves: %d", m.moves)))
	if m.lastMove != "" {
		b.WriteString(statusStyle.Render("  last: "))
		b.WriteString(moveStyle.Render(m.lastMove))
	}
	if rot, ok := m.engine.Pending(); ok {
		b.WriteString(statusStyle.Render("  turning " + rot.Notation()))
	}
	return b.String()
}

func (m *appModel) previewStatus() string {
	state := "paused"
	if m.player.Playing() {
		state = "playing"
	}
	if m.player.Silent() {
		state += " (no audio)"
	}
	return titleStyle.Render("cubelock") + statusStyle.Render("  "+state)
}

func (m *appModel) drawPreview(c *render.Canvas) {
	w, h := c.Size()

	c.CenterText(1, previewTitle, neonColor)

	width := min(w-4, 72)
	msg := lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(previewMessage)
	lines := strings.Split(msg, "\n")
	top := max(h/3, 3)
	x := (w - width) / 2
	for i, line := range lines {
		c.Text(x, top+i, line, messageColor)
	}

	y := top + len(lines) + 1
	c.CenterText(y, m.playerBar(min(width, 40)), neonColor)
	c.CenterText(y+2, trackCredit, creditColor)
}

// playerBar draws the play/pause widget and the loop position.
func (m *appModel) playerBar(width int) string {
	button := "[>]"
	if m.player.Playing() {
		button = "[||]"
	}
	bar := max(width-len(button)-1, 1)
	filled := int(m.player.Progress() * float64(bar))
	return button + " " + strings.Repeat("=", filled) + strings.Repeat("-", bar-filled)
}
