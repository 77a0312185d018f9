package player

import "testing"

func TestComposeAndSplitID(t *testing.T) {
	t.Parallel()

	id := ComposeID("401745972", "4433")
	if id != "401745972_4433" {
		t.Fatalf("unexpected id: %s", id)
	}

	gameID, athleteID, ok := SplitID(id)
	if !ok || gameID != "401745972" || athleteID != "4433" {
		t.Fatalf("unexpected split: %q %q %v", gameID, athleteID, ok)
	}

	for _, bad := range []string{"", "_4433", "401745972_", "nounderscore"} {
		if _, _, ok := SplitID(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestPlayer_CloneDetachesPointers(t *testing.T) {
	t.Parallel()

	pts := 12
	avg := 14.5
	original := Player{ID: "1_2", Points: &pts, AvgPoints: &avg}
	clone := original.Clone()

	*clone.Points = 30
	*clone.AvgPoints = 1
	if *original.Points != 12 || *original.AvgPoints != 14.5 {
		t.Fatalf("clone shares pointers with original")
	}
}
