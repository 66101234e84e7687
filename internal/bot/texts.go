package bot

const (
	textStart = "Send me an audio track and I will relay it to the channel.\n" +
		"You will be asked to tag it with a genre first."
	textHelp = "How it works:\n" +
		"1. Send an audio file or voice message.\n" +
		"2. Pick a genre for it.\n" +
		"3. Confirm, and the track lands in the channel with your name on it.\n\n" +
		"/cancel drops the track you are currently tagging."
	textDenied        = "You are not allowed to use this bot. Ask the operator for access."
	textPickGenre     = "Pick a genre for this track:"
	textConfirmPrefix = "Relay this track as #"
	textConfirmSuffix = "?"
	textForwarded     = "Done, your track is in the channel."
	textForwardFailed = "Could not deliver the track right now, tap Confirm to retry."
	textCancelled     = "Dropped. Send a new track whenever you like."
	textNothingToDo   = "Nothing is waiting for you here. Send an audio track first."
	textStalePrompt   = "That choice expired. Send the track again."

	textAskAddID    = "Send the numeric Telegram id of the user to allow."
	textAskRemoveID = "Send the numeric Telegram id of the user to remove."
	textAskBcast    = "Send the message to broadcast to all allowed users."
	textBadUserID   = "That does not look like a numeric Telegram id, try again or /cancel."
	textFlowDone    = "Done."
)
