package calibration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ecopia-map/colorply/tools"
)

const identityOrientation = `<?xml version="1.0" ?>
<ExportAPERO>
     <OrientationConique>
          <OrIntImaM2C>
               <I00>0 0</I00>
          </OrIntImaM2C>
          <TypeProj>eProjStenope</TypeProj>
          <Externe>
               <AltiSol>12.5</AltiSol>
               <Centre>0 0 0</Centre>
               <ParamRotation>
                    <CodageMatr>
                         <L1>1 0 0</L1>
                         <L2>0 1 0</L2>
                         <L3>0 0 1</L3>
                    </CodageMatr>
               </ParamRotation>
          </Externe>
          <ConvOri>
               <KnownConv>eConvApero_DistM2C</KnownConv>
          </ConvOri>
     </OrientationConique>
</ExportAPERO>
`

const autoCal = `<?xml version="1.0" ?>
<ExportAPERO>
     <CalibrationInternConique>
          <KnownConv>eConvApero_DistM2C</KnownConv>
          <PP>100 200</PP>
          <F>50</F>
          <SzIm>4000 3000</SzIm>
          <CalibDistortion>
               <ModRad>
                    <CDist>10 20</CDist>
                    <CoeffDist>0.1</CoeffDist>
                    <CoeffDist>0.2</CoeffDist>
                    <CoeffDist>0.3</CoeffDist>
               </ModRad>
          </CalibDistortion>
     </CalibrationInternConique>
</ExportAPERO>
`

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0666))
	return path
}

func TestReadOrientationFull(t *testing.T) {
	path := writeDoc(t, "Orientation-IMG_1.JPG.xml", identityOrientation)

	ori, err := ReadOrientationFull(path)
	require.NoError(t, err)
	assert.True(t, mat.Equal(mat.NewDiagDense(3, []float64{1, 1, 1}), ori.R))
	assert.Equal(t, []float64{0, 0, 0}, ori.S.RawVector().Data)
}

func TestReadOrientationRowOrder(t *testing.T) {
	doc := strings.NewReplacer(
		"<L1>1 0 0</L1>", "<L1>0.5 -0.25 2</L1>",
		"<L2>0 1 0</L2>", "<L2>3 4 5</L2>",
		"<L3>0 0 1</L3>", "<L3>6 7 8</L3>",
		"<Centre>0 0 0</Centre>", "<Centre>657.25 -12 1e3</Centre>",
	).Replace(identityOrientation)
	path := writeDoc(t, "Orientation-IMG_2.JPG.xml", doc)

	r, err := ReadOrientation(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, -0.25, 2}, r.RawRowView(0))
	assert.Equal(t, []float64{3, 4, 5}, r.RawRowView(1))
	assert.Equal(t, []float64{6, 7, 8}, r.RawRowView(2))

	s, err := ReadCenter(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{657.25, -12, 1000}, s.RawVector().Data)
}

func TestReadOrientationInexactLiterals(t *testing.T) {
	doc := strings.NewReplacer(
		"<L1>1 0 0</L1>", "<L1>0.1 0.7 0.2</L1>",
		"<Centre>0 0 0</Centre>", "<Centre>0.3 1e-7 -0.6</Centre>",
	).Replace(identityOrientation)
	d, err := Parse(strings.NewReader(doc), "orientation")
	require.NoError(t, err)

	ori, err := d.Orientation()
	require.NoError(t, err)
	assert.True(t, tools.IsFloatEqual(ori.R.At(0, 0)+ori.R.At(0, 2), 0.3))
	assert.True(t, tools.IsFloatEqual(ori.R.At(0, 1), 0.7))
	assert.True(t, tools.IsFloatEqual(ori.S.AtVec(0)+ori.S.AtVec(1), 0.3))
	assert.True(t, tools.IsFloatEqual(ori.S.AtVec(2), -0.6))
}

func TestReadCalib(t *testing.T) {
	path := writeDoc(t, "AutoCal_Foc-50_Cam.xml", autoCal)

	calib, err := ReadCalib(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 200, -50}, calib.F.RawVector().Data)
	assert.Equal(t, []float64{10, 20, 0}, calib.PPS.RawVector().Data)
	assert.Equal(t, Distortion{A: 0.1, B: 0.2, C: 0.3}, calib.CDist)
	assert.Equal(t, [2]int{4000, 3000}, calib.Size)
	assert.Equal(t, `{"a":0.1,"b":0.2,"c":0.3}`, tools.FmtJSONString(calib.CDist))
}

func TestSingleFieldCalibReaders(t *testing.T) {
	path := writeDoc(t, "AutoCal.xml", autoCal)

	f, err := ReadCalibF(path)
	require.NoError(t, err)
	assert.Equal(t, -50.0, f.AtVec(2))

	pps, err := ReadCalibPPS(path)
	require.NoError(t, err)
	assert.Equal(t, 0.0, pps.AtVec(2))

	dist, err := ReadCalibDistortion(path)
	require.NoError(t, err)
	assert.Equal(t, 0.2, dist.B)

	size, err := ReadSize(path)
	require.NoError(t, err)
	assert.Equal(t, [2]int{4000, 3000}, size)
}

func TestExtraCoeffDistIgnored(t *testing.T) {
	doc := strings.Replace(autoCal, "<CoeffDist>0.3</CoeffDist>",
		"<CoeffDist>0.3</CoeffDist><CoeffDist>0.4</CoeffDist>", 1)
	d, err := Parse(strings.NewReader(doc), "autocal")
	require.NoError(t, err)

	dist, err := d.Distortion()
	require.NoError(t, err)
	assert.Equal(t, Distortion{A: 0.1, B: 0.2, C: 0.3}, dist)
}

func TestDocumentShapeErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		read func(d *Document) error
		want error
	}{
		{
			name: "missing row",
			doc:  strings.Replace(identityOrientation, "<L2>0 1 0</L2>", "", 1),
			read: func(d *Document) error { _, err := d.Rotation(); return err },
			want: ErrMissingNode,
		},
		{
			name: "duplicated center",
			doc:  strings.Replace(identityOrientation, "<Centre>0 0 0</Centre>", "<Centre>0 0 0</Centre><Centre>1 1 1</Centre>", 1),
			read: func(d *Document) error { _, err := d.Center(); return err },
			want: ErrMultipleNodes,
		},
		{
			name: "short row",
			doc:  strings.Replace(identityOrientation, "<L3>0 0 1</L3>", "<L3>0 0</L3>", 1),
			read: func(d *Document) error { _, err := d.Orientation(); return err },
			want: ErrValueCount,
		},
		{
			name: "missing focal",
			doc:  strings.Replace(autoCal, "<F>50</F>", "", 1),
			read: func(d *Document) error { _, err := d.Calibration(); return err },
			want: ErrMissingNode,
		},
		{
			name: "two coefficients",
			doc:  strings.Replace(autoCal, "<CoeffDist>0.3</CoeffDist>", "", 1),
			read: func(d *Document) error { _, err := d.Distortion(); return err },
			want: ErrValueCount,
		},
		{
			name: "orientation document read as calibration",
			doc:  identityOrientation,
			read: func(d *Document) error { _, err := d.Calibration(); return err },
			want: ErrMissingNode,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Parse(strings.NewReader(tc.doc), tc.name)
			require.NoError(t, err)
			assert.ErrorIs(t, tc.read(d), tc.want)
		})
	}
}

func TestBadLiterals(t *testing.T) {
	d, err := Parse(strings.NewReader(strings.Replace(autoCal, "<SzIm>4000 3000</SzIm>", "<SzIm>4000.5 3000</SzIm>", 1)), "autocal")
	require.NoError(t, err)
	_, err = d.ImageSize()
	assert.Error(t, err)

	d, err = Parse(strings.NewReader(strings.Replace(autoCal, "<PP>100 200</PP>", "<PP>100 abc</PP>", 1)), "autocal")
	require.NoError(t, err)
	_, err = d.FocalPoint()
	assert.Error(t, err)
}

func TestReadFileNotFound(t *testing.T) {
	_, err := ReadOrientationFull(filepath.Join(t.TempDir(), "Orientation-missing.xml"))
	assert.ErrorIs(t, err, tools.ErrFileNotFound)
}
