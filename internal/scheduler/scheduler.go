// Package scheduler roda as notificações proativas: saudação diária,
// resumo semanal, lembretes de registro e de corridas avaliadas.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job é uma tarefa agendada. Run deve ser resiliente: uma falha em um
// destinatário não pode derrubar a rodada inteira.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Entry associa um Job à sua expressão cron (formato padrão de 5 campos).
type Entry struct {
	Spec string
	Job  Job
}

// Scheduler agenda e executa os jobs via cron.
type Scheduler struct {
	cron *cron.Cron
	log  *logrus.Logger

	// Timeout de cada execução de job.
	runTimeout time.Duration
}

func New(log *logrus.Logger, location *time.Location) *Scheduler {
	if log == nil {
		log = logrus.New()
	}
	if location == nil {
		location = time.Local
	}
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(location)),
		log:        log,
		runTimeout: 5 * time.Minute,
	}
}

// Register agenda um job. Erro só acontece com expressão cron inválida.
func (s *Scheduler) Register(entry Entry) error {
	job := entry.Job
	_, err := s.cron.AddFunc(entry.Spec, func() {
		s.runJob(job)
	})
	if err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"job": job.Name(), "spec": entry.Spec}).Info("job registered")
	return nil
}

func (s *Scheduler) runJob(job Job) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithFields(logrus.Fields{"job": job.Name(), "panic": r}).Error("job panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		s.log.WithError(err).WithField("job", job.Name()).Error("job failed")
		return
	}
	s.log.WithFields(logrus.Fields{"job": job.Name(), "took": time.Since(start)}).Debug("job finished")
}

// Start dispara o loop do cron em background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop interrompe novos disparos e espera os jobs em andamento.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
