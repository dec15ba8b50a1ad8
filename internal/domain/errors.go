package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Registro de tenants.
	ErrTenantNotFound        = errors.New("tenant no registrado")
	ErrTenantSuspended       = errors.New("tenant suspendido o archivado")
	ErrDuplicateOrganization = errors.New("organización ya registrada con otro store")

	// Conexiones por tenant.
	ErrConnectionTimeout     = errors.New("timeout al conectar con el store del tenant")
	ErrConnectionAuthFailure = errors.New("fallo de autenticación contra el store del tenant")

	// Ciclo de vida de identidades.
	ErrDuplicateIdentity = errors.New("ya existe una identidad viva con ese fingerprint")
	ErrDanglingReference = errors.New("referencia no resuelve a una entidad viva")
	ErrSnapshotMissing   = errors.New("el cierre requiere un snapshot persistido")
)
