// Package coolnumber decides whether an integer is noteworthy: meme
// constants, repeating digits, palindromes, arithmetic digit sequences and
// round milestones, each with a rarity tier and a coin reward.
//
// Classification is pure and deterministic. The branch order is a tie-break
// policy: meme lookup wins over every structural rule, then repeating digits,
// palindrome, sequence, milestone.
package coolnumber

import (
	"fmt"
	"strconv"
)

// Type identifies which rule matched.
type Type string

// Classification types.
const (
	TypeMeme       Type = "meme"
	TypeRepeating  Type = "repeating"
	TypePalindrome Type = "palindrome"
	TypeSequence   Type = "sequence"
	TypeMilestone  Type = "milestone"
)

// Rarity tiers, lowest to highest.
type Rarity string

// Rarity values.
const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
	RarityMythic    Rarity = "mythic"
)

// Result is the classification outcome. When IsCool is false the remaining
// fields are zero values.
type Result struct {
	IsCool      bool   `json:"is_cool"`
	Type        Type   `json:"type,omitempty"`
	Rarity      Rarity `json:"rarity,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Emoji       string `json:"emoji,omitempty"`
	Coins       int64  `json:"coins_reward,omitempty"`
}

type memeEntry struct {
	name        string
	description string
	emoji       string
	rarity      Rarity
	coins       int64
}

// memeNumbers maps culturally significant integers to fixed rewards.
var memeNumbers = map[int64]memeEntry{
	69:      {"Nice", "The legendary number", "😏", RarityLegendary, 500},
	420:     {"Blaze It", "Light it up!", "🌿", RarityLegendary, 500},
	1337:    {"Leet", "Elite hacker vibes", "💻", RarityEpic, 300},
	777:     {"Lucky Seven", "Jackpot!", "🎰", RarityEpic, 300},
	666:     {"Number of the Beast", "Evil has arrived", "😈", RarityRare, 200},
	80085:   {"Calculator Classic", "Upside down classic", "🔢", RarityRare, 250},
	8008:    {"Mini Calculator", "The shorter version", "📟", RarityCommon, 100},
	1234:    {"Counting Up", "Simple sequence", "🔢", RarityCommon, 100},
	9999:    {"Almost There", "So close to 10k!", "💯", RarityRare, 200},
	404:     {"Not Found", "Error: Clicks not found", "❌", RarityCommon, 50},
	100:     {"Century", "First hundred!", "💯", RarityCommon, 50},
	1000:    {"Thousand", "Four digits strong", "🎯", RarityRare, 150},
	10000:   {"Ten Thousand", "Five digit club", "🚀", RarityEpic, 400},
	100000:  {"One Hundred K", "Six digits baby!", "💎", RarityLegendary, 1000},
	1000000: {"ONE MILLION", "The big one!", "👑", RarityMythic, 5000},
	42:      {"Answer to Everything", "Don't panic!", "🌌", RarityRare, 150},
	360:     {"No Scope", "MLG Pro", "🎯", RarityCommon, 75},
	911:     {"Emergency", "Call for help!", "🚨", RarityCommon, 50},
	// Intentionally zero coins.
	1488: {"Censored", "Better not say...", "🔒", RarityRare, 0},
}

// Classify evaluates n against all rules and returns the first match.
func Classify(n int64) Result {
	if meme, ok := memeNumbers[n]; ok {
		return Result{
			IsCool:      true,
			Type:        TypeMeme,
			Rarity:      meme.rarity,
			Name:        meme.name,
			Description: meme.description,
			Emoji:       meme.emoji,
			Coins:       meme.coins,
		}
	}

	digits := strconv.FormatInt(n, 10)

	if hasRepeatingDigits(n, digits) {
		rarity, coins := repeatingTier(len(digits))
		return Result{
			IsCool:      true,
			Type:        TypeRepeating,
			Rarity:      rarity,
			Name:        fmt.Sprintf("All %cs", digits[0]),
			Description: fmt.Sprintf("%d repeating digits!", len(digits)),
			Emoji:       "🔁",
			Coins:       coins,
		}
	}

	if isPalindrome(n, digits) {
		rarity, coins := palindromeTier(len(digits))
		return Result{
			IsCool:      true,
			Type:        TypePalindrome,
			Rarity:      rarity,
			Name:        "Palindrome",
			Description: "Reads the same backwards!",
			Emoji:       "🔃",
			Coins:       coins,
		}
	}

	if ascending, ok := isSequence(n, digits); ok {
		rarity, coins := sequenceTier(len(digits))
		name, emoji := "Descending Sequence", "📉"
		if ascending {
			name, emoji = "Ascending Sequence", "📈"
		}
		return Result{
			IsCool:      true,
			Type:        TypeSequence,
			Rarity:      rarity,
			Name:        name,
			Description: fmt.Sprintf("%d digits in order!", len(digits)),
			Emoji:       emoji,
			Coins:       coins,
		}
	}

	if isMilestone(n, digits) {
		rarity, coins := milestoneTier(n)
		return Result{
			IsCool:      true,
			Type:        TypeMilestone,
			Rarity:      rarity,
			Name:        fmt.Sprintf("%d Milestone", n),
			Description: "Round number achieved!",
			Emoji:       "🎯",
			Coins:       coins,
		}
	}

	return Result{}
}

// hasRepeatingDigits reports whether all digits are identical (111, 2222, …).
// Single digits do not count.
func hasRepeatingDigits(n int64, digits string) bool {
	if n < 11 || len(digits) < 2 {
		return false
	}
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}

func repeatingTier(digitCount int) (Rarity, int64) {
	switch {
	case digitCount >= 6:
		return RarityMythic, 1000
	case digitCount >= 5:
		return RarityLegendary, 500
	case digitCount >= 4:
		return RarityEpic, 250
	case digitCount >= 3:
		return RarityRare, 100
	default:
		return RarityCommon, 50
	}
}

func isPalindrome(n int64, digits string) bool {
	if n < 10 {
		return false
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		if digits[i] != digits[j] {
			return false
		}
	}
	return true
}

func palindromeTier(digitCount int) (Rarity, int64) {
	switch {
	case digitCount >= 7:
		return RarityMythic, 1500
	case digitCount >= 6:
		return RarityLegendary, 750
	case digitCount >= 5:
		return RarityEpic, 300
	case digitCount >= 4:
		return RarityRare, 150
	default:
		return RarityCommon, 75
	}
}

// isSequence reports whether consecutive digits ascend by exactly +1 or
// descend by exactly -1 across the whole number. Minimum three digits.
func isSequence(n int64, digits string) (ascending, ok bool) {
	if n < 123 || len(digits) < 3 {
		return false, false
	}
	asc, desc := true, true
	for i := 1; i < len(digits); i++ {
		diff := int(digits[i]) - int(digits[i-1])
		if diff != 1 {
			asc = false
		}
		if diff != -1 {
			desc = false
		}
	}
	if asc {
		return true, true
	}
	if desc {
		return false, true
	}
	return false, false
}

func sequenceTier(digitCount int) (Rarity, int64) {
	switch {
	case digitCount >= 7:
		return RarityLegendary, 800
	case digitCount >= 6:
		return RarityEpic, 400
	case digitCount >= 5:
		return RarityRare, 200
	default:
		return RarityCommon, 100
	}
}

// isMilestone reports whether n is a round number: a one followed by zeros,
// or a multiple of 1000 at or above 1000.
func isMilestone(n int64, digits string) bool {
	if n < 100 {
		return false
	}
	if digits[0] == '1' {
		oneFollowedByZeros := true
		for i := 1; i < len(digits); i++ {
			if digits[i] != '0' {
				oneFollowedByZeros = false
				break
			}
		}
		if oneFollowedByZeros && len(digits) >= 3 {
			return true
		}
	}
	return n >= 1000 && n%1000 == 0
}

func milestoneTier(n int64) (Rarity, int64) {
	switch {
	case n >= 1000000:
		return RarityMythic, 5000
	case n >= 100000:
		return RarityLegendary, 1000
	case n >= 10000:
		return RarityEpic, 500
	default:
		return RarityRare, 200
	}
}
