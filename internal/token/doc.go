// Package token defines lexical token kinds and trivia for the C# subset
// accepted by udonc.
// Invariants:
//   - Token.Text is the exact source slice (identifiers are NFC-normalized).
//   - Token.Span matches the source range of Text.
//   - Contextual keywords (var, get, set, partial, value, nameof) are
//     identifiers; the parser recognizes them by text.
//   - Preprocessor lines (#region, #if ...) are Trivia, never tokens.
//   - '>' is always lexed alone; the parser glues '>' '>' into a shift
//     operator so that nested generic argument lists close correctly.
package token
