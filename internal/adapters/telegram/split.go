package telegram

const chunkLimit = 4000

// SplitMessage breaks the text into chunks that fit a single Telegram message.
// Chunks are cut at fixed rune offsets; boundaries may fall mid-word, which is
// the documented behavior downstream consumers rely on.
func SplitMessage(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= chunkLimit {
		return []string{text}
	}

	parts := make([]string, 0, len(runes)/chunkLimit+1)
	for start := 0; start < len(runes); start += chunkLimit {
		end := start + chunkLimit
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[start:end]))
	}
	return parts
}
