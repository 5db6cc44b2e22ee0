package handlers

import (
	"fmt"
	"strings"

	"kindtrail/internal/services"
	"kindtrail/internal/utils"
)

// 页面上的提示一律英文 / 西班牙文双语

func bilingual(en, es string) string {
	return en + " / " + es
}

// ErrorMessage renders a service error for display.
func ErrorMessage(err error) string {
	switch services.KindOf(err) {
	case services.KindOK:
		return ""
	case services.KindUserNotFound:
		return bilingual("User not found", "Usuario no encontrado")
	case services.KindStoryNotFound:
		return bilingual("Story not found", "Historia no encontrada")
	case services.KindSubscriptionRequired:
		return bilingual("You need to subscribe first", "Necesitas suscribirte primero")
	case services.KindInvalidInput:
		return invalidMessage(services.InvalidField(err))
	case services.KindRateLimitExceeded:
		return bilingual("Story limit reached for today", "Límite de historias alcanzado por hoy")
	case services.KindUsernameTaken:
		return bilingual("Username or email already taken", "Nombre de usuario o correo ya tomados")
	case services.KindInvalidCaptcha:
		return bilingual("Wrong answer to the math question", "Respuesta incorrecta a la pregunta")
	case services.KindPaymentProvider:
		return bilingual("Payment failed: "+providerDetail(err), "El pago falló: "+providerDetail(err))
	case services.KindPaymentNotConfirmed:
		return bilingual("Payment not confirmed", "Pago no confirmado")
	default:
		return bilingual("Database error", "Error de base de datos")
	}
}

func invalidMessage(field string) string {
	switch field {
	case services.FieldUsername:
		return bilingual("Invalid username format", "Formato de nombre de usuario inválido")
	case services.FieldEmail:
		return bilingual("Invalid email format", "Formato de correo inválido")
	case services.FieldTitle:
		return bilingual("Invalid title characters", "Caracteres de título inválidos")
	case services.FieldStory:
		return bilingual("Invalid story characters", "Caracteres de historia inválidos")
	case services.FieldStoryWords:
		return bilingual(
			fmt.Sprintf("Story exceeds %d words", utils.MaxStoryWords),
			fmt.Sprintf("Historia excede %d palabras", utils.MaxStoryWords),
		)
	case services.FieldComment:
		return bilingual("Invalid comment characters", "Caracteres de comentario inválidos")
	case services.FieldImage:
		return bilingual("Only images up to the size limit are allowed", "Solo se permiten imágenes dentro del límite de tamaño")
	default:
		return bilingual("Invalid input", "Entrada inválida")
	}
}

// providerDetail strips the sentinel prefix from a wrapped provider error.
func providerDetail(err error) string {
	return strings.TrimPrefix(err.Error(), services.ErrPaymentProvider.Error()+": ")
}

func submitMessage(draft bool) string {
	if draft {
		return bilingual("Draft saved successfully", "Borrador guardado con éxito")
	}
	return bilingual("Story submitted successfully", "Historia enviada con éxito")
}

func cheerMessage(storyID uint) string {
	return bilingual(fmt.Sprintf("Cheered story #%d", storyID), fmt.Sprintf("Aplaudida historia #%d", storyID))
}

func welcomeMessage(username string) string {
	return bilingual("Welcome, "+username+"!", "¡Bienvenido, "+username+"!")
}

func subscribedMessage(username string) string {
	return bilingual(username+", you're now subscribed", username+", ahora estás suscrito")
}

func emptyUsernameMessage() string {
	return bilingual("Please enter a username", "Ingresa un nombre de usuario")
}

func commentMessage() string {
	return bilingual("Comment added", "Comentario agregado")
}

// winnerLines renders one announcement line per winner, or the no-stories
// notice.
func winnerLines(report *services.WinnerReport) []string {
	if len(report.Winners) == 0 {
		return []string{bilingual("No stories last month", "No hay historias del último mes")}
	}
	lines := make([]string, 0, len(report.Winners))
	for _, w := range report.Winners {
		lines = append(lines, bilingual(
			fmt.Sprintf("#%d: %s with '%s' (%d cheers) - %s", w.Rank, w.Username, w.Title, w.Cheers, w.Payout),
			fmt.Sprintf("#%d: %s con '%s' (%d aplausos) - %s", w.Rank, w.Username, w.Title, w.Cheers, w.Payout),
		))
	}
	return lines
}
