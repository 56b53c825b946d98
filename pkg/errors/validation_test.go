package errors

import (
	"math"
	"testing"
)

func TestValidateLimit(t *testing.T) {
	tests := []struct {
		name    string
		limit   int
		wantErr bool
	}{
		{"zero", 0, false},
		{"below seed", 4, false},
		{"typical", 9000, false},
		{"at max", 100, false},

		{"negative", -1, true},
		{"above max", 101, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLimit(tt.limit, 100)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLimit(%d) error = %v, wantErr %v", tt.limit, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidLimit) {
				t.Errorf("ValidateLimit(%d) returned wrong error code: %v", tt.limit, err)
			}
		})
	}
}

func TestValidateSpacing(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"default", 30, false},
		{"fractional", 0.5, false},

		{"zero", 0, true},
		{"negative", -30, true},
		{"NaN", math.NaN(), true},
		{"infinite", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSpacing("spacing", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSpacing(%g) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidSpacing) {
				t.Errorf("ValidateSpacing(%g) returned wrong error code: %v", tt.value, err)
			}
		})
	}
}

func TestValidateFinite(t *testing.T) {
	if err := ValidateFinite("odd", -8); err != nil {
		t.Errorf("negative angle should pass: %v", err)
	}
	if err := ValidateFinite("odd", math.NaN()); !Is(err, ErrCodeInvalidAngle) {
		t.Errorf("NaN angle should fail with INVALID_ANGLE, got %v", err)
	}
	if err := ValidateFinite("even", math.Inf(-1)); err == nil {
		t.Error("infinite angle should fail")
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "coral.json", false},
		{"valid nested", "out/coral.svg", false},
		{"valid absolute", "/tmp/coral.obj", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOneOf(t *testing.T) {
	allowed := []string{"json", "svg"}
	if err := ValidateOneOf(ErrCodeInvalidFormat, "format", "svg", allowed); err != nil {
		t.Errorf("svg should be allowed: %v", err)
	}
	err := ValidateOneOf(ErrCodeInvalidFormat, "format", "SVG", allowed)
	if !Is(err, ErrCodeInvalidFormat) {
		t.Errorf("SVG should fail with INVALID_FORMAT, got %v", err)
	}
	if got, want := UserMessage(err), `invalid format: "SVG" (must be one of: json, svg)`; got != want {
		t.Errorf("UserMessage() = %q, want %q", got, want)
	}
}
