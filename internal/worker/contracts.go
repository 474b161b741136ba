package worker

// Pruner хранилище, из которого периодически удаляются устаревшие записи
type Pruner interface {
	// Name имя для логов
	Name() string

	// Prune удаляет устаревшие записи и возвращает их число
	Prune() int
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
