// Package commands defines the tripmux CLI.
//
// Commands
//
//   - serve     Run the web widget
//   - migrate   Apply database migrations
//   - search    Search the cheapest fares from the terminal
//   - places    Look up airports and cities
//   - prefs     Print the stored terminal preferences
//
// Configuration is read from the environment (see Config). The terminal
// commands keep their preferences in a JSON profile under the user config
// directory, so a chosen language or currency sticks between runs.
package commands
