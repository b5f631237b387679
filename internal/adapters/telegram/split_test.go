package telegram

import (
	"strings"
	"testing"
)

func TestSplitMessageFixedOffsets(t *testing.T) {
	parts := SplitMessage(strings.Repeat("я", 8500))
	if len(parts) != 3 {
		t.Fatalf("ожидали 3 части, получили %d", len(parts))
	}
	want := []int{4000, 4000, 500}
	for i, part := range parts {
		if got := len([]rune(part)); got != want[i] {
			t.Fatalf("часть %d: ожидали %d символов, получили %d", i, want[i], got)
		}
	}
}

func TestSplitMessageShortText(t *testing.T) {
	text := "привет"
	parts := SplitMessage(text)
	if len(parts) != 1 || parts[0] != text {
		t.Fatalf("короткий текст отправляется одной частью: %v", parts)
	}
}

func TestSplitMessageExactLimit(t *testing.T) {
	parts := SplitMessage(strings.Repeat("a", chunkLimit))
	if len(parts) != 1 {
		t.Fatalf("текст ровно в лимит не режется: %d частей", len(parts))
	}
}

func TestSplitMessageEmpty(t *testing.T) {
	if parts := SplitMessage(""); parts != nil {
		t.Fatalf("пустой текст не даёт частей: %v", parts)
	}
}
