package ai

import "strings"

// Assistant simula un asistente conversacional para el back office.
// Respuestas enlatadas elegidas por keywords del mensaje.
type Assistant struct{}

func NewAssistant() *Assistant { return &Assistant{} }

type cannedReply struct {
	keywords []string
	reply    string
}

var cannedReplies = []cannedReply{
	{
		keywords: []string{"precio", "tarifa", "rate", "price"},
		reply:    "Para ajustar tus tarifas entra a Rates en el panel. Los cambios se publican al instante en tu página de rates.",
	},
	{
		keywords: []string{"foto", "imagen", "galeria", "gallery", "upload"},
		reply:    "Puedes subir imágenes desde Gallery. Cada imagen pasa por moderación automática antes de publicarse.",
	},
	{
		keywords: []string{"calendario", "calendar", "booking", "cita"},
		reply:    "Administra tu disponibilidad desde Calendar. Los bloques marcados como disponibles aparecen en tu sitio público.",
	},
	{
		keywords: []string{"theme", "tema", "diseño", "color"},
		reply:    "Cambia el theme de tu sitio desde Settings. Puedes previsualizar antes de aplicar.",
	},
	{
		keywords: []string{"contacto", "inquiry", "mensaje", "crm"},
		reply:    "Las consultas del formulario de contacto llegan a tu CRM. Revisa la pestaña Inquiries para responder.",
	},
}

const fallbackReply = "No estoy segura de eso todavía. Prueba preguntando por tu galería, tarifas, calendario, theme o consultas de clientes."

// Reply devuelve la respuesta enlatada que mejor matchea el mensaje.
func (a *Assistant) Reply(message string) string {
	msg := strings.ToLower(message)
	for _, c := range cannedReplies {
		for _, kw := range c.keywords {
			if strings.Contains(msg, kw) {
				return c.reply
			}
		}
	}
	return fallbackReply
}
