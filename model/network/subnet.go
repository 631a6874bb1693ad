package network

import (
	"fmt"
	"strings"
)

// SmallAppSubnetMaxSize is the subnet size assumed when the own subnet record has no members.
const SmallAppSubnetMaxSize = 13

// DefaultEcdsaMaxQueueSize is used when the own subnet has no ECDSA config.
const DefaultEcdsaMaxQueueSize = 20

// SubnetType determines the resource limits and charging policy applied by execution.
type SubnetType int

const (
	SubnetTypeApplication SubnetType = iota
	SubnetTypeSystem
	SubnetTypeVerifiedApplication
)

func (t SubnetType) String() string {
	switch t {
	case SubnetTypeApplication:
		return "application"
	case SubnetTypeSystem:
		return "system"
	case SubnetTypeVerifiedApplication:
		return "verified_application"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// SubnetFeatures are the optional features enabled on a subnet.
type SubnetFeatures struct {
	CanisterSandboxing bool
	HTTPRequests       bool
	SevEnabled         bool
}

// EcdsaCurve is the elliptic curve of a threshold ECDSA key.
type EcdsaCurve string

const EcdsaCurveSecp256k1 EcdsaCurve = "Secp256k1"

// EcdsaKeyID names a threshold ECDSA key held by one or more subnets.
type EcdsaKeyID struct {
	Curve EcdsaCurve
	Name  string
}

func (k EcdsaKeyID) String() string {
	return fmt.Sprintf("%s:%s", k.Curve, k.Name)
}

// ParseEcdsaKeyID parses the `<curve>:<name>` form produced by String.
func ParseEcdsaKeyID(s string) (EcdsaKeyID, error) {
	curve, name, ok := strings.Cut(s, ":")
	if !ok || name == "" {
		return EcdsaKeyID{}, fmt.Errorf("malformed ecdsa key id %q, expected <curve>:<name>", s)
	}
	if EcdsaCurve(curve) != EcdsaCurveSecp256k1 {
		return EcdsaKeyID{}, fmt.Errorf("unsupported ecdsa curve %q", curve)
	}
	return EcdsaKeyID{Curve: EcdsaCurve(curve), Name: name}, nil
}

// EcdsaConfig is the threshold ECDSA configuration of a subnet.
type EcdsaConfig struct {
	QuadruplesToCreateInAdvance uint32
	KeyIDs                      []EcdsaKeyID
	MaxQueueSize                uint32
}
