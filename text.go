package main

// Static copy for the home page. Everything else comes from the content store.
var (
	Tagline = `Software developer building tools for the terminal and the web, mostly in Go.`

	AboutMe = `I love building software that's both useful and fun, and I'm always curious about how things work behind the scenes.
Most of my projects start with a simple idea and turn into a chance to learn something new, whether it's exploring a
different language, experimenting with tools, or solving tricky problems.
When I'm not coding, you'll usually find me training Muay Thai, shooting pool with friends,
or chasing down a new challenge outside the screen.`

	Skills = []string{"Go", "Gin", "HTMX", "PostgreSQL", "SQLite", "Tailwind CSS", "Alpine.js", "Python", "Docker", "Linux"}
)
