package engine_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"e2estore/internal/domain"
	"e2estore/internal/engine"
)

type party struct {
	dhPriv domain.PrivateKey
	dhPub  domain.PublicKey
	kemSec *engine.KEMSecretKey
	kemPub *engine.KEMPublicKey
}

func newParty(t *testing.T, kem bool) party {
	t.Helper()
	var p party
	var err error
	p.dhPriv, p.dhPub, err = engine.GenerateDHKeys()
	require.NoError(t, err)
	if kem {
		p.kemSec, p.kemPub, err = engine.GenerateKEMKeys()
		require.NoError(t, err)
	}
	return p
}

func (p party) recipient() engine.Recipient { return engine.Recipient{DH: p.dhPub, KEM: p.kemPub} }
func (p party) keys() engine.DecryptKeys    { return engine.DecryptKeys{DH: p.dhPriv, KEM: p.kemSec} }

func TestDH_Agreement(t *testing.T) {
	a, b := newParty(t, false), newParty(t, false)
	ab, err := engine.DH(a.dhPriv, b.dhPub)
	require.NoError(t, err)
	ba, err := engine.DH(b.dhPriv, a.dhPub)
	require.NoError(t, err)
	require.Equal(t, ab, ba)
}

func TestPublicKeyOf_MatchesGenerated(t *testing.T) {
	priv, pub, err := engine.GenerateDHKeys()
	require.NoError(t, err)
	got, err := engine.PublicKeyOf(priv)
	require.NoError(t, err)
	require.Equal(t, pub, got)

	// Zero is a low-order point.
	_, err = engine.DH(priv, domain.PublicKey{})
	require.Error(t, err)
}

func TestEncryptDecrypt_HybridManyRecipients(t *testing.T) {
	fp, verifier, err := engine.GenerateFingerprint()
	require.NoError(t, err)
	sender := newParty(t, false)

	recipients := []party{newParty(t, true), newParty(t, true), newParty(t, true)}
	var rs []engine.Recipient
	for _, r := range recipients {
		rs = append(rs, r.recipient())
	}

	content := bytes.Repeat([]byte{0xab}, 64<<10)
	c, ck, err := engine.Encrypt(&fp, sender.dhPriv, content, rs)
	require.NoError(t, err)
	require.Len(t, c.Keys, 3)

	b, err := c.Marshal()
	require.NoError(t, err)
	got, err := engine.UnmarshalComponents(b)
	require.NoError(t, err)

	for _, r := range recipients {
		pt, key, err := engine.Decrypt(&verifier, got, r.keys())
		require.NoError(t, err)
		require.Equal(t, content, pt)
		require.Equal(t, ck, key)
	}
}

func TestEncryptDecrypt_DHOnlyUnsigned(t *testing.T) {
	sender, r := newParty(t, false), newParty(t, false)
	c, _, err := engine.Encrypt(nil, sender.dhPriv, []byte("hi"), []engine.Recipient{r.recipient()})
	require.NoError(t, err)
	require.Empty(t, c.Signature)

	pt, _, err := engine.Decrypt(nil, c, r.keys())
	require.NoError(t, err)
	require.Equal(t, []byte("hi"), pt)
}

func TestDecrypt_Failures(t *testing.T) {
	fp, verifier, err := engine.GenerateFingerprint()
	require.NoError(t, err)
	_, otherVerifier, err := engine.GenerateFingerprint()
	require.NoError(t, err)
	sender, r, stranger := newParty(t, false), newParty(t, false), newParty(t, false)

	c, _, err := engine.Encrypt(&fp, sender.dhPriv, []byte("secret"), []engine.Recipient{r.recipient()})
	require.NoError(t, err)

	_, _, err = engine.Decrypt(&otherVerifier, c, r.keys())
	require.ErrorIs(t, err, engine.ErrBadSignature)

	_, _, err = engine.Decrypt(&verifier, c, stranger.keys())
	require.ErrorIs(t, err, engine.ErrNotForUs)

	c.Ciphertext[0] ^= 1
	_, _, err = engine.Decrypt(nil, c, r.keys())
	require.ErrorIs(t, err, engine.ErrCorrupt)
	_, _, err = engine.Decrypt(&verifier, c, r.keys())
	require.ErrorIs(t, err, engine.ErrBadSignature)
}

func TestEncrypt_NoRecipients(t *testing.T) {
	sender := newParty(t, false)
	_, _, err := engine.Encrypt(nil, sender.dhPriv, []byte("x"), nil)
	require.ErrorIs(t, err, engine.ErrNoRecipients)
}

func TestUnmarshalComponents_Trailing(t *testing.T) {
	sender, r := newParty(t, false), newParty(t, false)
	c, _, err := engine.Encrypt(nil, sender.dhPriv, []byte("x"), []engine.Recipient{r.recipient()})
	require.NoError(t, err)
	b, err := c.Marshal()
	require.NoError(t, err)

	_, err = engine.UnmarshalComponents(append(b, 0, 0, 0, 0))
	require.Error(t, err)
	_, err = engine.UnmarshalComponents(b[:len(b)-1])
	require.Error(t, err)
}
