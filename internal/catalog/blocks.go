package catalog

// Block describes one row of the schedule matrix.
type Block struct {
	Label string
	Hours string
}

var Blocks = [BlockCount]Block{
	{Label: "1-2", Hours: "8:15 - 9:25"},
	{Label: "3-4", Hours: "9:40 - 10:50"},
	{Label: "5-6", Hours: "11:05 - 12:15"},
	{Label: "7-8", Hours: "12:30 - 13:40"},
	{Label: "9-10", Hours: "14:40 - 15:50"},
	{Label: "11-12", Hours: "16:05 - 17:15"},
	{Label: "13-14", Hours: "17:30 - 18:40"},
	{Label: "15-16", Hours: "18:50 - 20:00"},
	{Label: "17-18", Hours: "20:15 - 21:25"},
	{Label: "19-20", Hours: "21:40 - 22:50"},
}

var Weekdays = [DayCount]string{
	"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo",
}
