package main

import "github.com/prikhi/bodyweight-client/cmd/bodyweight"

func main() {
	bodyweight.Execute()
}
