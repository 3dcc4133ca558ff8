package training

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"max.ks1230/fintrack-ml/internal/logger"
)

// Job is a queued request to retrain one model family for a user.
type Job struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Model       string    `json:"model"`
	RequestedAt time.Time `json:"requested_at"`
}

const (
	JobModelCategory = "category"
	JobModelAnomaly  = "anomaly"
)

// Trainer produces the on-disk model artifacts from built-in sample data.
// Real per-user data would replace the samples; the artifact formats stay
// the same.
type Trainer struct {
	dir string
	mu  sync.Mutex // guards rnd; Run is called from request goroutines when jobs run inline
	rnd *rand.Rand
}

func NewTrainer(dir string) *Trainer {
	return &Trainer{
		dir: dir,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// TrainMissing trains only the artifacts absent from the model directory.
func (t *Trainer) TrainMissing(ctx context.Context) error {
	existing, missing := CheckArtifacts(t.dir)
	if len(missing) == 0 {
		logger.Info("all model artifacts present, skipping training",
			zap.Strings("existing", existing))
		return nil
	}

	logger.Info("training missing model artifacts", zap.Strings("missing", missing))
	for _, name := range missing {
		if err := t.train(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// TrainAll rebuilds every artifact regardless of what is on disk.
func (t *Trainer) TrainAll(ctx context.Context) error {
	for _, name := range artifactFiles {
		if err := t.train(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// Run executes a queued training job.
func (t *Trainer) Run(ctx context.Context, job Job) error {
	logger.Info("running training job",
		zap.String("job", job.ID),
		zap.String("user", job.UserID),
		zap.String("model", job.Model))

	switch job.Model {
	case JobModelCategory:
		return t.train(ctx, CategoryModelFile)
	case JobModelAnomaly:
		return t.train(ctx, AnomalyModelFile)
	default:
		return errors.Errorf("unknown model %q in job %s", job.Model, job.ID)
	}
}

func (t *Trainer) train(ctx context.Context, name string) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "train "+name)
	defer span.Finish()

	start := time.Now()
	var err error
	switch name {
	case CategoryModelFile:
		err = t.trainCategory()
	case AnomalyModelFile:
		err = t.trainAnomaly()
	case ForecastConfigFile:
		err = saveArtifact(t.dir, ForecastConfigFile, DefaultForecastConfig())
	default:
		err = errors.Errorf("unknown artifact %q", name)
	}
	if err != nil {
		return errors.Wrapf(err, "train %s", name)
	}

	logger.Info("trained model artifact",
		zap.String("artifact", name),
		zap.Duration("took", time.Since(start)))
	return nil
}

func (t *Trainer) trainCategory() error {
	clf, err := TrainTextClassifier(sampleCategoryData())
	if err != nil {
		return err
	}
	return saveArtifact(t.dir, CategoryModelFile, clf)
}

func (t *Trainer) trainAnomaly() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	forest, err := TrainIsolationForest(t.sampleAnomalyData(), t.rnd)
	if err != nil {
		return err
	}
	return saveArtifact(t.dir, AnomalyModelFile, forest)
}

// sampleCategoryData is a small hand-labeled description corpus used to
// bootstrap the category model before any user data exists.
func sampleCategoryData() []LabeledText {
	return []LabeledText{
		{"Starbucks Coffee", "Dining"},
		{"Whole Foods Market", "Groceries"},
		{"Shell Gas Station", "Transportation"},
		{"Amazon Purchase", "Shopping"},
		{"Netflix Subscription", "Entertainment"},
		{"Gym Membership", "Healthcare"},
		{"Electric Bill", "Utilities"},
		{"Mobile Phone Bill", "Utilities"},
		{"Uber Ride", "Transportation"},
		{"Movie Tickets", "Entertainment"},
		{"Restaurant Dinner", "Dining"},
		{"Grocery Shopping", "Groceries"},
		{"Gas Station", "Transportation"},
		{"Online Shopping", "Shopping"},
		{"Streaming Service", "Entertainment"},
		{"Fitness Center", "Healthcare"},
		{"Utility Payment", "Utilities"},
		{"Phone Service", "Utilities"},
		{"Rideshare", "Transportation"},
		{"Entertainment", "Entertainment"},
		{"Walmart", "Shopping"},
		{"Target Store", "Shopping"},
		{"CVS Pharmacy", "Healthcare"},
		{"Fast Food", "Dining"},
		{"Coffee Shop", "Dining"},
		{"Safeway", "Groceries"},
		{"Costco", "Groceries"},
		{"Walgreens", "Healthcare"},
		{"McDonalds", "Dining"},
		{"Chipotle", "Dining"},
	}
}

// sampleAnomalyData synthesizes normal-looking transactions: amounts drawn
// from N(50, 30) clipped to [5, 500], plus day-of-week and waking-hour
// features.
func (t *Trainer) sampleAnomalyData() [][]float64 {
	const rows = 1000
	data := make([][]float64, rows)
	for i := range data {
		amount := 50 + t.rnd.NormFloat64()*30
		if amount < 5 {
			amount = 5
		}
		if amount > 500 {
			amount = 500
		}
		data[i] = []float64{
			amount,
			float64(t.rnd.Intn(7)),
			float64(6 + t.rnd.Intn(17)),
		}
	}
	return data
}
