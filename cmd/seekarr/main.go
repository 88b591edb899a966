// Command seekarr is a Discord bot for requesting movies and series from
// Radarr and Sonarr.
package main

func main() {
	Execute()
}
