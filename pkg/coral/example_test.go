package coral_test

import (
	"fmt"

	"github.com/matzehuels/coral/pkg/collatz"
	"github.com/matzehuels/coral/pkg/coral"
)

func ExampleNew() {
	g, _ := collatz.Build(5)
	c, err := coral.New(collatz.Group(g), coral.DefaultConfig())
	if err != nil {
		panic(err)
	}

	for s := range c.All() {
		end := s[len(s)-1]
		fmt.Printf("%d points, ends at (%.1f, %.1f, %.0f)\n", len(s), end.X, end.Y, end.Z)
	}
	// Output:
	// 6 points, ends at (140.7, -46.8, 75)
}
