package commandimpl

const helpMessage = `👋 <b>Welcome to the events bot!</b>

Share events with people in your city and discover what is going on.

<b>EVENTS:</b>
/feed - Browse upcoming events that match your preferences.
/liked_posts - Events you have liked.
/my_posts - Events you created and their moderation status.

<b>PUBLISHING:</b>
/create_post - Announce a new event. Moderators review it before it appears in the feed.
/skip - Skip an optional step while creating a post.
/cancel - Stop creating a post.

Type /help at any time to see this guide.`

const (
	msgFailure        = "Something went wrong. Please try again later."
	msgUseCommands    = "I did not understand that. Type /help to see what I can do."
	msgSlowDown       = "Too many requests, slow down a little."
	msgNoSession      = "You are not creating a post right now. Start with /create_post."
	msgCancelled      = "Post creation cancelled."
	msgAborted        = "Some required details are missing, so the post was not created. Please start again with /create_post."
	msgCommitted      = "🎉 Thank you! Your event was sent to the moderators and will appear in the feed once approved."
	msgNotConfigured  = "Publishing is unavailable right now: the moderation team is not set up. Your post was not saved, please contact the administrators."
	msgModerationLost = "Your event was saved but could not be delivered to the moderators. Please contact the administrators."
	msgPostGone       = "This event is no longer available."
	msgUnknownButton  = "This button is no longer supported."
	msgUnknownCommand = "Unknown command. Type /help to see the list of available commands."
	msgNotAllowed     = "You are not allowed to do this."
)

const (
	promptCities     = "📍 <b>Step 1.</b> Pick the cities where the event takes place, then press Done."
	promptCategories = "🏷 <b>Step 2.</b> Pick one or more categories, then press Done."
	promptTitle      = "✏️ <b>Step 3.</b> Send the event title (up to 100 characters)."
	promptContent    = "📝 <b>Step 4.</b> Describe the event (up to 2000 characters)."
	promptURL        = "🔗 <b>Step 5.</b> Send a link starting with http:// or https://, or /skip."
	promptEventAt    = "🗓 <b>Step 6.</b> When does it start? Send the date and time as DD.MM.YYYY HH:MM, for example 25.12.2026 19:00."
	promptAddress    = "🏠 <b>Step 7.</b> Send the address (up to 200 characters), or /skip."
	promptImage      = "🖼 <b>Step 8.</b> Send a picture for the event, or /skip."
)
