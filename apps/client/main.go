// A small terminal client for the game server. It forwards stdin
// lines verbatim and pretty-prints what comes back, rendering hand
// snapshots as cards instead of raw JSON.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"net"
	"os"
	"strings"

	"github.com/pterm/pterm"

	"oldmaid-lite/card"
	"oldmaid-lite/protocol"
)

func main() {
	addr := flag.String("addr", "localhost:5555", "server address")
	flag.Parse()

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		pterm.Error.Printfln("connect %s: %v", *addr, err)
		os.Exit(1)
	}
	defer conn.Close()
	pterm.Success.Printfln("Connected to %s", *addr)

	go readLoop(conn)

	in := bufio.NewScanner(os.Stdin)
	for in.Scan() {
		if _, err := conn.Write([]byte(in.Text() + "\n")); err != nil {
			return
		}
	}
}

func readLoop(conn net.Conn) {
	r := bufio.NewReader(conn)
	expectHand := false
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			pterm.Warning.Println("Server closed the connection.")
			os.Exit(0)
		}
		line = strings.TrimRight(line, "\r\n")

		switch {
		case line == protocol.HandIntro:
			expectHand = true
		case expectHand:
			expectHand = false
			printHand(line)
		default:
			pterm.Info.Println(line)
		}
	}
}

// printHand renders a hand snapshot line. The raw JSON is echoed in
// gray so it can be copied into a discard command.
func printHand(raw string) {
	var cards []card.Card
	if err := json.Unmarshal([]byte(raw), &cards); err != nil {
		pterm.Info.Println(raw)
		return
	}
	if len(cards) == 0 {
		pterm.Success.Println("Your hand is empty!")
		return
	}

	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	pterm.DefaultBox.WithTitle("Your hand").Println(strings.Join(parts, "  "))
	pterm.Println(pterm.Gray(raw))
}
