package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// ProgressBar shows how much of a known amount of input has been consumed.
// It redraws only when the rendered percentage changes.
type ProgressBar struct {
	w     io.Writer
	title string
	width int
	unit  func(int64) string

	mu       sync.Mutex
	total    int64
	current  int64
	lastDraw int
}

// NewProgressBar creates a progress bar counting bytes.
func NewProgressBar(w io.Writer, title string, total int64) *ProgressBar {
	return &ProgressBar{
		w:        w,
		title:    title,
		width:    40,
		unit:     formatBytes,
		total:    total,
		lastDraw: -1,
	}
}

// WithUnit replaces the byte formatting of counts, for example with
// strconv.FormatInt-based item counts.
func (p *ProgressBar) WithUnit(unit func(int64) string) *ProgressBar {
	p.unit = unit
	return p
}

// Write counts len(b) consumed bytes, so a ProgressBar can sit behind an
// io.TeeReader.
func (p *ProgressBar) Write(b []byte) (int, error) {
	p.Add(int64(len(b)))
	return len(b), nil
}

// Add records n more units of progress.
func (p *ProgressBar) Add(n int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current += n
	p.render(false)
}

// Finish draws the final state and ends the line.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.total > 0 {
		p.current = p.total
	}
	p.render(true)
	fmt.Fprintln(p.w)
}

func (p *ProgressBar) render(force bool) {
	if p.total <= 0 {
		fmt.Fprintf(p.w, "\r%s %s", p.title, p.unit(p.current))
		return
	}

	percent := min(float64(p.current)/float64(p.total), 1)
	draw := int(percent * 100)
	if draw == p.lastDraw && !force {
		return
	}
	p.lastDraw = draw

	filled := int(float64(p.width) * percent)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", p.width-filled)
	fmt.Fprintf(p.w, "\r%s [%s] %3d%% (%s/%s)", p.title, bar, draw, p.unit(p.current), p.unit(p.total))
}

// formatBytes formats bytes to human readable string.
func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
