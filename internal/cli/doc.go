// Package cli provides command-line interface setup and configuration
// for the imgspeak application. It handles flag parsing, command
// creation, credential lookup and configuration management using cobra,
// viper and godotenv.
package cli
