// token emite un JWT para clientes de la API (integraciones OCR, auditores, administradores).
//
// Uso: go run ./cmd/token -sub integracion-ocr -company 1 -role digitador [-ttl 720h]
// El secreto y el emisor salen de JWT_SECRET y JWT_ISSUER.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/facturas-ocr/pkg/config"
	"github.com/jhoicas/facturas-ocr/pkg/jwt"
)

func main() {
	var (
		sub     = flag.String("sub", "", "subject: usuario o integración (requerido)")
		company = flag.String("company", "", "empresa del cliente")
		role    = flag.String("role", jwt.RoleDigitizer, "rol: admin, digitador o auditor")
		ttl     = flag.Duration("ttl", 0, "vigencia del token (por defecto JWT_EXPIRATION_MINUTES)")
	)
	flag.Parse()

	switch *role {
	case jwt.RoleAdmin, jwt.RoleDigitizer, jwt.RoleAuditor:
	default:
		fmt.Fprintf(os.Stderr, "Error: rol %q no reconocido\n", *role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if *ttl <= 0 {
		*ttl = time.Duration(cfg.JWT.Expiration) * time.Minute
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, jwt.TokenInput{
		Subject:   *sub,
		CompanyID: *company,
		Role:      *role,
		Issuer:    cfg.JWT.Issuer,
		TTL:       *ttl,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
