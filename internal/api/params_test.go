package api

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	errs "github.com/matzehuels/coral/pkg/errors"
	"github.com/matzehuels/coral/pkg/pipeline"
)

func TestOptionsFromQuery(t *testing.T) {
	q, _ := url.ParseQuery("limit=600&preset=mobile&start=8&spacing=12.5&rise=0&odd=22&origin_x=-3&projection=side&width=640&smooth=-1&seed=7&background=%23112233&stroke_width=3&refresh=true")
	got, err := optionsFromQuery(q)
	if err != nil {
		t.Fatal(err)
	}

	want := pipeline.Options{
		Limit:      pipeline.Int(600),
		Preset:     "mobile",
		Start:      8,
		Spacing:    12.5,
		Rise:       pipeline.Float(0),
		Odd:        pipeline.Float(22),
		OriginX:    -3,
		Projection: "side",
		Width:      640,
		Smooth:     pipeline.NoSmooth,
		Seed:       7,
		Background: "#112233",
		Stroke:     3,
		Refresh:    true,
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreUnexported(pipeline.Options{})); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
	if got.Even != nil {
		t.Errorf("Even = %v, want unset", *got.Even)
	}
}

func TestOptionsFromQueryErrors(t *testing.T) {
	for _, raw := range []string{"limit=1.5", "start=-1", "odd=left", "refresh=perhaps", "seed=x", "stroke_width=thick"} {
		q, _ := url.ParseQuery(raw)
		if _, err := optionsFromQuery(q); !errs.Is(err, errs.ErrCodeInvalidInput) {
			t.Errorf("optionsFromQuery(%s) = %v, want INVALID_INPUT", raw, err)
		}
	}
}
