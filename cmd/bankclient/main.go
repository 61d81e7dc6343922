// Command bankclient is a minimal interactive terminal client for the bank
// server: it reads a line from stdin, sends it to the server, and prints
// whatever comes back on a separate reader goroutine.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"
)

func main() {
	host := flag.String("host", "127.0.0.1", "bank server host")
	port := flag.Int("port", 8080, "bank server port")
	flag.Parse()

	addr := fmt.Sprintf("%s:%d", *host, *port)
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Connection failed:", err)
		os.Exit(1)
	}
	defer conn.Close()

	fmt.Printf("Connected to bank server at %s\n", addr)
	fmt.Println()
	fmt.Println("=== Secure Bank System Client ===")
	fmt.Println("Type commands to interact with the bank system.")
	fmt.Println("Type 'HELP' for available commands.")
	fmt.Println("Type 'EXIT' to quit.")
	fmt.Println("==================================")

	done := make(chan struct{})
	go receiveLoop(conn, done)

	processInput(conn)
	conn.Write([]byte("LOGOUT\n"))
	<-done
}

func receiveLoop(conn net.Conn, done chan struct{}) {
	defer close(done)
	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return
		}
		fmt.Println("\n=== Server Response ===")
		fmt.Println(strings.TrimRight(string(buf[:n]), "\r\n"))
		fmt.Println("=======================")
		fmt.Print("> ")
	}
}

func processInput(conn net.Conn) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		input := scanner.Text()

		upper := strings.ToUpper(strings.TrimSpace(input))
		if upper == "EXIT" || upper == "QUIT" {
			return
		}

		if _, err := conn.Write([]byte(input + "\n")); err != nil {
			fmt.Println("Connection lost")
			return
		}
	}
}
