package predict

import (
	"errors"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// ErrSingleClass is returned for ROC metrics when the true labels contain a
// single class.
var ErrSingleClass = errors.New("predict: only one class present in labels")

// Confusion is a binary confusion matrix.
type Confusion struct {
	TN, FP, FN, TP int
}

// ConfusionMatrix compares predicted labels with true ones.
func ConfusionMatrix(yTrue, yPred []int) Confusion {
	var c Confusion
	for i := range yTrue {
		switch {
		case yTrue[i] == 1 && yPred[i] == 1:
			c.TP++
		case yTrue[i] == 1:
			c.FN++
		case yPred[i] == 1:
			c.FP++
		default:
			c.TN++
		}
	}
	return c
}

// Accuracy is the share of correct predictions.
func (c Confusion) Accuracy() float64 {
	total := c.TN + c.FP + c.FN + c.TP
	if total == 0 {
		return 0
	}
	return float64(c.TN+c.TP) / float64(total)
}

// Precision is 1 when nothing was predicted positive.
func (c Confusion) Precision() float64 {
	if c.TP+c.FP == 0 {
		return 1
	}
	return float64(c.TP) / float64(c.TP+c.FP)
}

// Recall is 0 when there are no positives.
func (c Confusion) Recall() float64 {
	if c.TP+c.FN == 0 {
		return 0
	}
	return float64(c.TP) / float64(c.TP+c.FN)
}

// F1 is the harmonic mean of precision and recall.
func (c Confusion) F1() float64 {
	// The precision fallback of 1 does not apply here.
	p := 0.0
	if c.TP+c.FP > 0 {
		p = c.Precision()
	}
	r := c.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// ROCCurve returns the false and true positive rates of scores against the
// labels, both ascending from 0 to 1.
func ROCCurve(yTrue []int, scores []float64) (fpr, tpr []float64, err error) {
	if len(yTrue) != len(scores) {
		return nil, nil, ErrShape
	}
	y := make([]float64, len(scores))
	copy(y, scores)
	classes := make([]bool, len(yTrue))
	pos := 0
	for i, label := range yTrue {
		classes[i] = label == 1
		pos += label
	}
	if pos == 0 || pos == len(yTrue) {
		return nil, nil, ErrSingleClass
	}
	stat.SortWeightedLabeled(y, classes, nil)
	tpr, fpr, _ = stat.ROC(nil, y, classes, nil)
	return fpr, tpr, nil
}

// AUC is the area under the ROC curve.
func AUC(yTrue []int, scores []float64) (float64, error) {
	fpr, tpr, err := ROCCurve(yTrue, scores)
	if err != nil {
		return 0, err
	}
	return integrate.Trapezoidal(fpr, tpr), nil
}

// Report gathers the evaluation of a classifier on a test set. AUC is nil
// when the test set holds a single class.
type Report struct {
	Confusion Confusion `json:"confusion_matrix"`
	Accuracy  float64   `json:"accuracy"`
	Precision float64   `json:"precision"`
	Recall    float64   `json:"recall"`
	F1        float64   `json:"f1"`
	AUC       *float64  `json:"roc_auc"`
	FPR       []float64 `json:"-"`
	TPR       []float64 `json:"-"`
}

// Evaluate scores a forest on held out rows.
func Evaluate(f *Forest, x [][]float64, y []int) (Report, error) {
	proba, err := f.PredictProba(x)
	if err != nil {
		return Report{}, err
	}
	pred := make([]int, len(proba))
	for i, p := range proba {
		if p > 0.5 {
			pred[i] = 1
		}
	}
	c := ConfusionMatrix(y, pred)
	r := Report{
		Confusion: c,
		Accuracy:  c.Accuracy(),
		Precision: c.Precision(),
		Recall:    c.Recall(),
		F1:        c.F1(),
	}
	fpr, tpr, err := ROCCurve(y, proba)
	switch {
	case errors.Is(err, ErrSingleClass):
	case err != nil:
		return r, err
	default:
		auc := integrate.Trapezoidal(fpr, tpr)
		r.AUC = &auc
		r.FPR, r.TPR = fpr, tpr
	}
	return r, nil
}
