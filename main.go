package main

import (
	"fmt"
	"os"

	"github.com/heathj/weburl/url"
)

func main() {
	input := "https://example.com:8080/a/../b?q=1#frag"
	if len(os.Args) > 1 {
		input = os.Args[1]
	}
	u, err := url.Parse(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse %q: %v\n", input, err)
		os.Exit(1)
	}
	fmt.Println(u)
}
