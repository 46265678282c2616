package ui

import (
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/moodtune/moodtune/internal/shared"
)

// Player spawns an external audio command for track previews. At most one
// preview runs at a time; starting a new one stops the current first.
type Player struct {
	mu      sync.Mutex
	name    string
	args    []string
	cmd     *exec.Cmd
	current string
}

// NewPlayer creates a Player from a shell-style command string, e.g.
// "mpv --no-video --really-quiet". The preview URL is appended as the
// final argument.
func NewPlayer(command string) (*Player, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: player command is empty", shared.ErrInvalidConfig)
	}
	return &Player{name: fields[0], args: fields[1:]}, nil
}

// Play starts a preview, stopping any preview already running.
func (p *Player) Play(url string) error {
	if url == "" {
		return fmt.Errorf("%w: track has no preview", shared.ErrInvalidInput)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	args := make([]string, 0, len(p.args)+1)
	args = append(args, p.args...)
	args = append(args, url)

	cmd := exec.Command(p.name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start player %q: %w", p.name, err)
	}

	p.cmd = cmd
	p.current = url

	go func(c *exec.Cmd) {
		_ = c.Wait()
		p.mu.Lock()
		if p.cmd == c {
			p.cmd = nil
			p.current = ""
		}
		p.mu.Unlock()
	}(cmd)

	return nil
}

// Toggle stops the preview when url is already playing, otherwise plays it.
func (p *Player) Toggle(url string) error {
	p.mu.Lock()
	playing := p.current == url && p.cmd != nil
	p.mu.Unlock()

	if playing {
		p.Stop()
		return nil
	}
	return p.Play(url)
}

// Stop kills the running preview, if any.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// Playing reports the URL of the active preview.
func (p *Player) Playing() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, p.cmd != nil
}

func (p *Player) stopLocked() {
	if p.cmd != nil && p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	p.cmd = nil
	p.current = ""
}
