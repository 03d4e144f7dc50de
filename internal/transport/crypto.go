package transport

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"
)

const (
	infoClientToServer = "mkw-sp room client->server"
	infoServerToClient = "mkw-sp room server->client"
)

type keyExchange struct {
	private [curve25519.ScalarSize]byte
	public  [curve25519.PointSize]byte
}

func newKeyExchange() (*keyExchange, error) {
	kx := &keyExchange{}
	if _, err := io.ReadFull(rand.Reader, kx.private[:]); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	pub, err := curve25519.X25519(kx.private[:], curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}
	copy(kx.public[:], pub)
	return kx, nil
}

// sessionKeys derives the key pair for one side. clientPub and serverPub
// salt the derivation so both sides agree regardless of who computes it.
func (kx *keyExchange) sessionKeys(peer []byte, clientPub, serverPub []byte, isClient bool) (KeyPair, error) {
	if len(peer) != curve25519.PointSize {
		return KeyPair{}, fmt.Errorf("%w: public key has %d bytes", ErrBadHandshake, len(peer))
	}
	shared, err := curve25519.X25519(kx.private[:], peer)
	if err != nil {
		return KeyPair{}, fmt.Errorf("%w: %v", ErrBadHandshake, err)
	}

	salt := make([]byte, 0, len(clientPub)+len(serverPub))
	salt = append(salt, clientPub...)
	salt = append(salt, serverPub...)

	var c2s, s2c [KeySize]byte
	if _, err := io.ReadFull(hkdf.New(sha256.New, shared, salt, []byte(infoClientToServer)), c2s[:]); err != nil {
		return KeyPair{}, err
	}
	if _, err := io.ReadFull(hkdf.New(sha256.New, shared, salt, []byte(infoServerToClient)), s2c[:]); err != nil {
		return KeyPair{}, err
	}

	if isClient {
		return KeyPair{Rx: s2c, Tx: c2s}, nil
	}
	return KeyPair{Rx: c2s, Tx: s2c}, nil
}

// sealer encrypts or decrypts one direction of a session. The nonce is a
// message counter, so messages must be opened in the order they were sealed.
type sealer struct {
	aead    cipher.AEAD
	counter uint64
}

func newSealer(key [KeySize]byte) (*sealer, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, err
	}
	return &sealer{aead: aead}, nil
}

func (s *sealer) nextNonce() []byte {
	nonce := make([]byte, chacha20poly1305.NonceSize)
	binary.LittleEndian.PutUint64(nonce[4:], s.counter)
	s.counter++
	return nonce
}

func (s *sealer) seal(plaintext []byte) []byte {
	return s.aead.Seal(nil, s.nextNonce(), plaintext, nil)
}

func (s *sealer) open(ciphertext []byte) ([]byte, error) {
	plaintext, err := s.aead.Open(nil, s.nextNonce(), ciphertext, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}
