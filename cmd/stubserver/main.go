// Command stubserver runs the development double of the HealthPulse auth
// backend. Not for production use: users and signing key live in memory.
package main

import (
	"flag"
	"log"
	"strings"
	"time"

	"github.com/mkarev/healthpulse/internal/shared"
	"github.com/mkarev/healthpulse/internal/stub"
)

func main() {
	addr := flag.String("a", ":8080", "address to listen on")
	users := flag.String("u", "demo:demo", "comma-separated user:password pairs to seed")
	ttl := flag.Duration("ttl", time.Hour, "issued token lifetime")
	flag.Parse()

	key, err := shared.MakeRandHexString(32)
	if err != nil {
		log.Fatalf("generating signing key: %v", err)
	}

	s := stub.NewServer([]byte(key), *ttl)
	for _, pair := range strings.Split(*users, ",") {
		name, password, ok := strings.Cut(pair, ":")
		if !ok {
			log.Fatalf("invalid user spec %q, want user:password", pair)
		}
		if err := s.AddUser(name, password); err != nil {
			log.Fatalf("seeding user %q: %v", name, err)
		}
	}

	log.Printf("stub auth backend listening on %s", *addr)
	if err := s.Router().Run(*addr); err != nil {
		log.Fatalf("%v", err)
	}
}
