package services

import (
  "regexp"
  "strings"
  "unicode"
)

var (
  sentenceSplitRe = regexp.MustCompile(`(?s)(.*?[.!?])(?:\s+|$)`)
  wordRe          = regexp.MustCompile(`[A-Za-z0-9']+`)
  whitespaceRe    = regexp.MustCompile(`\s+`)
)

// splitSentences breaks text on terminal punctuation, keeping the
// punctuation attached. Trailing text without a terminator becomes its
// own sentence.
func splitSentences(text string) []string {
  text = strings.TrimSpace(text)
  if text == "" {
    return nil
  }

  var out []string
  consumed := 0
  for _, m := range sentenceSplitRe.FindAllStringSubmatchIndex(text, -1) {
    s := strings.TrimSpace(text[m[2]:m[3]])
    if s != "" {
      out = append(out, s)
    }
    if m[1] > consumed {
      consumed = m[1]
    }
  }
  if rest := strings.TrimSpace(text[consumed:]); rest != "" {
    out = append(out, rest)
  }
  return out
}

func countWords(text string) int {
  return len(strings.Fields(text))
}

// truncateWords enforces a word cap. Text already within the cap is
// returned unchanged, so applying the cap twice is a no-op.
func truncateWords(text string, maxWords int) string {
  if maxWords <= 0 {
    return text
  }
  fields := strings.Fields(text)
  if len(fields) <= maxWords {
    return text
  }
  kept := fields[:maxWords]
  kept[maxWords-1] = kept[maxWords-1] + "..."
  return strings.Join(kept, " ")
}

func normalizeWhitespace(text string) string {
  return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

var stopwords = map[string]struct{}{
  "a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
  "by": {}, "for": {}, "from": {}, "has": {}, "have": {}, "he": {},
  "in": {}, "is": {}, "it": {}, "its": {}, "of": {}, "on": {}, "or": {},
  "that": {}, "the": {}, "this": {}, "to": {}, "was": {}, "were": {},
  "will": {}, "with": {}, "which": {}, "can": {}, "also": {}, "their": {},
  "they": {}, "but": {}, "not": {}, "we": {}, "our": {}, "these": {},
  "those": {}, "such": {}, "than": {}, "then": {}, "when": {}, "where": {},
}

func isStopword(w string) bool {
  _, ok := stopwords[strings.ToLower(w)]
  return ok
}

// contentWords returns lowercased non-stopword tokens.
func contentWords(text string) []string {
  var out []string
  for _, w := range wordRe.FindAllString(text, -1) {
    if isStopword(w) {
      continue
    }
    out = append(out, strings.ToLower(w))
  }
  return out
}

// countSyllables approximates syllables by counting vowel groups, with
// the usual silent-e adjustment. Every word has at least one syllable.
func countSyllables(word string) int {
  word = strings.ToLower(strings.TrimFunc(word, func(r rune) bool {
    return !unicode.IsLetter(r)
  }))
  if word == "" {
    return 0
  }

  isVowel := func(r byte) bool {
    switch r {
    case 'a', 'e', 'i', 'o', 'u', 'y':
      return true
    }
    return false
  }

  count := 0
  prevVowel := false
  for i := 0; i < len(word); i++ {
    v := isVowel(word[i])
    if v && !prevVowel {
      count++
    }
    prevVowel = v
  }
  if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
    count--
  }
  if count < 1 {
    count = 1
  }
  return count
}

// fleschKincaidGrade computes the Flesch-Kincaid grade level:
// 0.39*(words/sentences) + 11.8*(syllables/words) - 15.59.
func fleschKincaidGrade(text string) float64 {
  sentences := splitSentences(text)
  words := wordRe.FindAllString(text, -1)
  if len(sentences) == 0 || len(words) == 0 {
    return 0
  }
  syllables := 0
  for _, w := range words {
    syllables += countSyllables(w)
  }
  grade := 0.39*(float64(len(words))/float64(len(sentences))) +
    11.8*(float64(syllables)/float64(len(words))) - 15.59
  if grade < 0 {
    grade = 0
  }
  return grade
}

// fleschReadingEase computes 206.835 - 1.015*(words/sentences) -
// 84.6*(syllables/words). Higher is easier; clamped to [0, 100].
func fleschReadingEase(text string) float64 {
  sentences := splitSentences(text)
  words := wordRe.FindAllString(text, -1)
  if len(sentences) == 0 || len(words) == 0 {
    return 0
  }
  syllables := 0
  for _, w := range words {
    syllables += countSyllables(w)
  }
  score := 206.835 - 1.015*(float64(len(words))/float64(len(sentences))) -
    84.6*(float64(syllables)/float64(len(words)))
  if score < 0 {
    score = 0
  }
  if score > 100 {
    score = 100
  }
  return score
}
