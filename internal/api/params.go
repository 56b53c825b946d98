package api

import (
	"net/url"
	"strconv"
	"strings"

	errs "github.com/matzehuels/coral/pkg/errors"
	"github.com/matzehuels/coral/pkg/pipeline"
)

// optionsFromQuery reads pipeline options from URL query parameters. Absent
// parameters are left unset so pipeline defaults apply.
func optionsFromQuery(q url.Values) (pipeline.Options, error) {
	var (
		opts pipeline.Options
		p    = queryParser{q: q}
	)
	opts.Limit = p.optInt("limit")
	opts.Preset = q.Get("preset")
	opts.Start = p.uint("start")
	opts.Spacing = p.float("spacing")
	opts.Rise = p.optFloat("rise")
	opts.Odd = p.optFloat("odd")
	opts.Even = p.optFloat("even")
	opts.OriginX = p.float("origin_x")
	opts.OriginY = p.float("origin_y")
	opts.OriginZ = p.float("origin_z")
	opts.OriginAngle = p.float("origin_angle")
	opts.Projection = q.Get("projection")
	opts.Width = p.float("width")
	opts.Height = p.float("height")
	opts.Smooth = p.int("smooth")
	opts.Seed = p.uint("seed")
	opts.Background = q.Get("background")
	opts.Stroke = p.float("stroke_width")
	opts.Refresh = p.bool("refresh")
	return opts, p.err
}

// queryParser records the first parse failure and returns zero values after it.
type queryParser struct {
	q   url.Values
	err error
}

func (p *queryParser) raw(name string) (string, bool) {
	if p.err != nil || !p.q.Has(name) {
		return "", false
	}
	return strings.TrimSpace(p.q.Get(name)), true
}

func (p *queryParser) fail(name, v string, err error) {
	p.err = errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid %s: %q", name, v)
}

func (p *queryParser) int(name string) int {
	if n := p.optInt(name); n != nil {
		return *n
	}
	return 0
}

func (p *queryParser) optInt(name string) *int {
	v, ok := p.raw(name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(name, v, err)
		return nil
	}
	return &n
}

func (p *queryParser) uint(name string) uint64 {
	v, ok := p.raw(name)
	if !ok {
		return 0
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		p.fail(name, v, err)
	}
	return n
}

func (p *queryParser) float(name string) float64 {
	if f := p.optFloat(name); f != nil {
		return *f
	}
	return 0
}

func (p *queryParser) optFloat(name string) *float64 {
	v, ok := p.raw(name)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(name, v, err)
		return nil
	}
	return &f
}

func (p *queryParser) bool(name string) bool {
	v, ok := p.raw(name)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(name, v, err)
	}
	return b
}
