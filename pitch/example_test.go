package pitch_test

import (
	"fmt"

	"github.com/cwbudde/algo-makam/pitch"
)

func ExampleHzToCent() {
	fmt.Printf("%.0f\n", pitch.HzToCent(440, 220))
	fmt.Printf("%.0f\n", pitch.HzToCent(110, 220))
	fmt.Println(pitch.HzToCent(0, 220))

	// Output:
	// 1200
	// -1200
	// NaN
}

func ExampleTrack_Voiced() {
	tr := &pitch.Track{Pitch: []float64{0, 220, 221, 0, 19}}
	fmt.Println(tr.Voiced())

	// Output:
	// [220 221]
}
