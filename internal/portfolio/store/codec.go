package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/subham12r/portfolio/internal/portfolio/domain"
	"github.com/subham12r/portfolio/pkg/cryptox"
)

// SealerInfo separates the token store key from other HKDF uses.
const SealerInfo = "token-store"

// Codec turns a TokenState into the sealed bytes drivers write. The
// integration name is bound in as associated data so a row cannot be
// replayed under another integration.
type Codec struct {
	sealer *cryptox.Sealer
}

func NewCodec(sealer *cryptox.Sealer) *Codec {
	return &Codec{sealer: sealer}
}

func (c *Codec) Encode(integration string, st domain.TokenState) ([]byte, error) {
	plain, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("store: encode token: %w", err)
	}
	return c.sealer.Seal(plain, []byte(integration))
}

func (c *Codec) Decode(integration string, sealed []byte) (domain.TokenState, error) {
	plain, err := c.sealer.Open(sealed, []byte(integration))
	if err != nil {
		if errors.Is(err, cryptox.ErrSealCorrupted) {
			return domain.TokenState{}, fmt.Errorf("store: %s token unreadable (key changed?): %w", integration, err)
		}
		return domain.TokenState{}, err
	}

	var st domain.TokenState
	if err := json.Unmarshal(plain, &st); err != nil {
		return domain.TokenState{}, fmt.Errorf("store: decode token: %w", err)
	}
	return st, nil
}
