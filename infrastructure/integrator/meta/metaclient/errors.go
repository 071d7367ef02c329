package metaclient

import (
	"errors"
	"fmt"
)

// ErrMissingCredential indica ausência de token de acesso: a chamada falha
// antes de qualquer tentativa contra a rede.
var ErrMissingCredential = errors.New("credencial de acesso do Meta ausente")

// UpstreamUnavailableError indica falha transitória (429 ou 5xx) que persistiu
// após o número máximo de tentativas. Carrega o último status e corpo recebidos.
type UpstreamUnavailableError struct {
	Status   int
	Body     string
	Attempts int
}

func (e *UpstreamUnavailableError) Error() string {
	return fmt.Sprintf("plataforma de anúncios indisponível após %d tentativas (status %d)", e.Attempts, e.Status)
}

// UpstreamRejectedError indica rejeição não transitória (400/401 com envelope
// de erro da plataforma). Não há retry: o usuário precisa reconectar a conta.
type UpstreamRejectedError struct {
	Status       int
	Code         int
	Subcode      int
	ErrType      string
	Message      string
	TokenExpired bool
}

func (e *UpstreamRejectedError) Error() string {
	return fmt.Sprintf("plataforma de anúncios rejeitou a requisição (código %d): %s", e.Code, e.Message)
}

// UpstreamProtocolError indica resposta que não pôde ser interpretada
// (JSON malformado ou envelope inesperado). Não há retry.
type UpstreamProtocolError struct {
	Cause error
}

func (e *UpstreamProtocolError) Error() string {
	return fmt.Sprintf("resposta malformada da plataforma de anúncios: %v", e.Cause)
}

func (e *UpstreamProtocolError) Unwrap() error {
	return e.Cause
}

// IsUpstreamUnavailable informa se err é uma falha transitória esgotada
func IsUpstreamUnavailable(err error) bool {
	var target *UpstreamUnavailableError
	return errors.As(err, &target)
}

// IsUpstreamRejected informa se err é uma rejeição não transitória
func IsUpstreamRejected(err error) bool {
	var target *UpstreamRejectedError
	return errors.As(err, &target)
}

// IsUpstreamProtocolError informa se err é uma resposta malformada
func IsUpstreamProtocolError(err error) bool {
	var target *UpstreamProtocolError
	return errors.As(err, &target)
}
