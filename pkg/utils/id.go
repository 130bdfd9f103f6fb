package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateID gera um identificador aleatório alfanumérico com o tamanho informado
func GenerateID(length int) (string, error) {
	return gonanoid.Generate(characters, length)
}
