package coolnumber

import "testing"

func TestClassifyMemePriority(t *testing.T) {
	tests := []struct {
		n      int64
		name   string
		rarity Rarity
		coins  int64
	}{
		{69, "Nice", RarityLegendary, 500},
		{420, "Blaze It", RarityLegendary, 500},
		{666, "Number of the Beast", RarityRare, 200},
		{1337, "Leet", RarityEpic, 300},
		// 777 is repeating digits too, but the meme table wins.
		{777, "Lucky Seven", RarityEpic, 300},
		// 1234 is an ascending sequence too, but the meme table wins.
		{1234, "Counting Up", RarityCommon, 100},
		// 100 and 1000 are milestones too, but the meme table wins.
		{100, "Century", RarityCommon, 50},
		{1000, "Thousand", RarityRare, 150},
		{1000000, "ONE MILLION", RarityMythic, 5000},
	}

	for _, tt := range tests {
		got := Classify(tt.n)
		if !got.IsCool || got.Type != TypeMeme {
			t.Errorf("Classify(%d) = %+v, want meme hit", tt.n, got)
			continue
		}
		if got.Name != tt.name || got.Rarity != tt.rarity || got.Coins != tt.coins {
			t.Errorf("Classify(%d) = {%s %s %d}, want {%s %s %d}",
				tt.n, got.Name, got.Rarity, got.Coins, tt.name, tt.rarity, tt.coins)
		}
	}
}

func TestClassifyZeroCoinMeme(t *testing.T) {
	got := Classify(1488)
	if !got.IsCool || got.Type != TypeMeme {
		t.Fatalf("Classify(1488) = %+v, want meme hit", got)
	}
	if got.Coins != 0 {
		t.Errorf("Classify(1488).Coins = %d, want 0", got.Coins)
	}
}

func TestClassifyRepeatingDigits(t *testing.T) {
	tests := []struct {
		n      int64
		rarity Rarity
		coins  int64
	}{
		{11, RarityCommon, 50},
		{111, RarityRare, 100},
		{1111, RarityEpic, 250},
		{55555, RarityLegendary, 500},
		{888888, RarityMythic, 1000},
	}

	for _, tt := range tests {
		got := Classify(tt.n)
		if !got.IsCool || got.Type != TypeRepeating {
			t.Errorf("Classify(%d) = %+v, want repeating hit", tt.n, got)
			continue
		}
		if got.Rarity != tt.rarity || got.Coins != tt.coins {
			t.Errorf("Classify(%d) = {%s %d}, want {%s %d}", tt.n, got.Rarity, got.Coins, tt.rarity, tt.coins)
		}
	}
}

func TestClassifyPalindrome(t *testing.T) {
	tests := []struct {
		n      int64
		rarity Rarity
		coins  int64
	}{
		{121, RarityCommon, 75},
		{1221, RarityRare, 150},
		{12321, RarityEpic, 300},
		{123321, RarityLegendary, 750},
		{1234321, RarityMythic, 1500},
	}

	for _, tt := range tests {
		got := Classify(tt.n)
		if !got.IsCool || got.Type != TypePalindrome {
			t.Errorf("Classify(%d) = %+v, want palindrome hit", tt.n, got)
			continue
		}
		if got.Rarity != tt.rarity || got.Coins != tt.coins {
			t.Errorf("Classify(%d) = {%s %d}, want {%s %d}", tt.n, got.Rarity, got.Coins, tt.rarity, tt.coins)
		}
	}
}

func TestClassifySequence(t *testing.T) {
	tests := []struct {
		n         int64
		ascending bool
		rarity    Rarity
		coins     int64
	}{
		{123, true, RarityCommon, 100},
		{456, true, RarityCommon, 100},
		{4321, false, RarityCommon, 100},
		{12345, true, RarityRare, 200},
		{987654, false, RarityEpic, 400},
		{1234567, true, RarityLegendary, 800},
	}

	for _, tt := range tests {
		got := Classify(tt.n)
		if !got.IsCool || got.Type != TypeSequence {
			t.Errorf("Classify(%d) = %+v, want sequence hit", tt.n, got)
			continue
		}
		wantName := "Descending Sequence"
		if tt.ascending {
			wantName = "Ascending Sequence"
		}
		if got.Name != wantName || got.Rarity != tt.rarity || got.Coins != tt.coins {
			t.Errorf("Classify(%d) = {%s %s %d}, want {%s %s %d}",
				tt.n, got.Name, got.Rarity, got.Coins, wantName, tt.rarity, tt.coins)
		}
	}
}

func TestClassifyMilestone(t *testing.T) {
	tests := []struct {
		n      int64
		rarity Rarity
		coins  int64
	}{
		{2000, RarityRare, 200},
		{5000, RarityRare, 200},
		{25000, RarityEpic, 500},
		{500000, RarityLegendary, 1000},
		{3000000, RarityMythic, 5000},
	}

	for _, tt := range tests {
		got := Classify(tt.n)
		if !got.IsCool || got.Type != TypeMilestone {
			t.Errorf("Classify(%d) = %+v, want milestone hit", tt.n, got)
			continue
		}
		if got.Rarity != tt.rarity || got.Coins != tt.coins {
			t.Errorf("Classify(%d) = {%s %d}, want {%s %d}", tt.n, got.Rarity, got.Coins, tt.rarity, tt.coins)
		}
	}
}

func TestClassifyNotCool(t *testing.T) {
	for _, n := range []int64{0, 1, 5, 10, 12, 13, 137, 2501, 9080706} {
		if got := Classify(n); got.IsCool {
			t.Errorf("Classify(%d) = %+v, want not cool", n, got)
		}
	}
}

func TestClassifyDeterministic(t *testing.T) {
	first := Classify(12321)
	for i := 0; i < 100; i++ {
		if got := Classify(12321); got != first {
			t.Fatalf("Classify(12321) changed between calls: %+v vs %+v", got, first)
		}
	}
}
