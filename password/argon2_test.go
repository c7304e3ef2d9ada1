package password

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestHashAndVerify(t *testing.T) {
	hasher, err := NewArgon2(testConfig())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}

	hash, err := hasher.Hash("secret")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$") {
		t.Fatalf("unexpected PHC prefix: %s", hash)
	}

	ok, err := hasher.Verify("secret", hash)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Fatal("expected password verification to succeed")
	}
}

func TestVerifyWrongPassword(t *testing.T) {
	hasher, err := NewArgon2(testConfig())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}

	hash, err := hasher.Hash("secret")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	for _, attempt := range []string{"wrong", "secret ", "Secret", ""} {
		ok, err := hasher.Verify(attempt, hash)
		if err != nil {
			t.Fatalf("Verify(%q) error: %v", attempt, err)
		}
		if ok {
			t.Fatalf("expected %q to be rejected", attempt)
		}
	}
}

func TestHashIsSalted(t *testing.T) {
	hasher, err := NewArgon2(testConfig())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}

	a, err := hasher.Hash("same")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	b, err := hasher.Hash("same")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if a == b {
		t.Fatal("expected distinct hashes for the same password")
	}
}

func TestVerifyUsesStoredParameters(t *testing.T) {
	weak, err := NewArgon2(testConfig())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}
	hash, err := weak.Hash("secret")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	strongCfg := testConfig()
	strongCfg.Time = 2
	strong, err := NewArgon2(strongCfg)
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}

	ok, err := strong.Verify("secret", hash)
	if err != nil || !ok {
		t.Fatalf("expected verification with recorded params, ok=%v err=%v", ok, err)
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	hasher, err := NewArgon2(testConfig())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}

	cases := []string{
		"",
		"secret",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaA",
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaA",
		"$argon2id$v=19$m=1,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaA",
		"$argon2id$v=19$m=8192,t=1,p=1$!!$aGFzaGhhc2hoYXNoaGFzaA",
		"$argon2id$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaGhhc2hoYXNoaGFzaA",
	}
	for _, stored := range cases {
		ok, err := hasher.Verify("secret", stored)
		if !errors.Is(err, ErrMalformedHash) {
			t.Fatalf("Verify(%q): expected ErrMalformedHash, got %v", stored, err)
		}
		if ok {
			t.Fatalf("Verify(%q): malformed hash must not verify", stored)
		}
	}
}

func TestVerifyRejectsCostAboveCeiling(t *testing.T) {
	hasher, err := NewArgon2(testConfig())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}

	const tail = "$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaA"
	cases := []string{
		"$argon2id$v=19$m=32769,t=1,p=1" + tail,
		"$argon2id$v=19$m=4294967295,t=1,p=1" + tail,
		"$argon2id$v=19$m=8192,t=5,p=1" + tail,
		"$argon2id$v=19$m=8192,t=4294967295,p=1" + tail,
		"$argon2id$v=19$m=8192,t=1,p=5" + tail,
		"$argon2id$v=19$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$" + strings.Repeat("A", 2000),
	}
	for _, stored := range cases {
		start := time.Now()
		ok, err := hasher.Verify("secret", stored)
		if !errors.Is(err, ErrMalformedHash) || ok {
			t.Fatalf("Verify(%q): expected ErrMalformedHash, got ok=%v err=%v", stored, ok, err)
		}
		if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
			t.Fatalf("Verify(%q) derived a key before rejecting: %s", stored, elapsed)
		}
	}
}

func TestVerifyAcceptsCostWithinCeiling(t *testing.T) {
	stronger := testConfig()
	stronger.Time = 4
	strong, err := NewArgon2(stronger)
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}
	hash, err := strong.Hash("secret")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	weak, err := NewArgon2(testConfig())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}
	ok, err := weak.Verify("secret", hash)
	if err != nil || !ok {
		t.Fatalf("expected t=4 hash to verify under t=1 config, ok=%v err=%v", ok, err)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	mutate := []func(*Config){
		func(c *Config) { c.Memory = 1024 },
		func(c *Config) { c.Time = 0 },
		func(c *Config) { c.Parallelism = 0 },
		func(c *Config) { c.SaltLength = 8 },
		func(c *Config) { c.KeyLength = 8 },
	}
	for i, m := range mutate {
		cfg := testConfig()
		m(&cfg)
		if _, err := NewArgon2(cfg); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

func TestPlaintextVerifier(t *testing.T) {
	var v Verifier = Plaintext{}

	stored, err := v.Hash("secret")
	if err != nil || stored != "secret" {
		t.Fatalf("unexpected plaintext hash %q err=%v", stored, err)
	}
	if ok, _ := v.Verify("secret", stored); !ok {
		t.Fatal("expected exact match to verify")
	}
	for _, attempt := range []string{"secret ", "Secret", "", "secre"} {
		if ok, _ := v.Verify(attempt, stored); ok {
			t.Fatalf("expected %q to be rejected", attempt)
		}
	}
}

func TestNewVerifier(t *testing.T) {
	v, err := NewVerifier(ModeArgon2id, testConfig())
	if err != nil {
		t.Fatalf("argon2id: %v", err)
	}
	if _, ok := v.(*Argon2); !ok {
		t.Fatalf("expected *Argon2, got %T", v)
	}

	v, err = NewVerifier(ModePlaintext, Config{})
	if err != nil {
		t.Fatalf("plaintext: %v", err)
	}
	if _, ok := v.(Plaintext); !ok {
		t.Fatalf("expected Plaintext, got %T", v)
	}

	if _, err := NewVerifier("md5", testConfig()); err == nil {
		t.Fatal("expected unsupported mode error")
	}
}
