package game

import "github.com/atotto/clipboard"

// setClipboardText is swapped out in tests.
var setClipboardText = clipboard.WriteAll
