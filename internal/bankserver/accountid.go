package bankserver

import (
	"fmt"
	"math/rand"
)

// newClientAccountID generates an unused ACC<4-digit> id.
func (s *Server) newClientAccountID() string {
	for {
		candidate := fmt.Sprintf("ACC%04d", 1000+rand.Intn(9000))
		if s.store.FindClient(candidate) == nil {
			return candidate
		}
	}
}
