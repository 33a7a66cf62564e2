// Package plot renders clustering results as self-contained ECharts HTML
// documents: a scatter chart of points colored by cluster with the final
// centroids overlaid, and a bar chart of cluster sizes.
package plot

import (
	"fmt"
	"io"
	"strconv"

	"github.com/AvraamMavridis/randomcolor"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/hupe1980/kmeansgo"
	"github.com/hupe1980/kmeansgo/model"
)

// Options configure chart rendering.
type Options struct {
	// Title is the chart headline.
	Title string

	// SaveName names the toolbox's save-as-image download.
	SaveName string
}

// Scatter writes an HTML scatter chart with one series per cluster and a
// black "Centroids" series on top. Points are grouped by the result's
// membership sets, so the slice must be the one the clustering ran over.
func Scatter(w io.Writer, points []model.Point, result *kmeansgo.Result, optFns ...func(*Options)) error {
	if len(points) != len(result.Labels) {
		return fmt.Errorf("plot: %d points for %d labels", len(points), len(result.Labels))
	}

	o := Options{
		Title:    "k-means scatter",
		SaveName: "k-means_scatter",
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	es := charts.NewScatter()
	es.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: o.Title}),
		charts.WithLegendOpts(
			opts.Legend{
				Show: true,
				Top:  "5%",
			},
		),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: true,
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{
					Show:  true,
					Type:  "png",
					Title: o.SaveName,
				},
			},
		}),
		charts.WithDataZoomOpts(
			opts.DataZoom{
				Type:       "slider",
				XAxisIndex: 0,
			},
			opts.DataZoom{
				Type:       "slider",
				YAxisIndex: 0,
			},
			opts.DataZoom{
				Type:       "inside",
				XAxisIndex: 0,
			},
			opts.DataZoom{
				Type:       "inside",
				YAxisIndex: 0,
			},
		),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      true,
			Formatter: "{a}: {b}",
		}),
	)

	color := ""
	for c := 0; c < result.K(); c++ {
		data := make([]opts.ScatterData, 0)

		it := result.Members(c).Iterator()
		for it.HasNext() {
			i := it.Next()
			data = append(data, opts.ScatterData{
				Name:  strconv.Itoa(int(i)),
				Value: []float64{points[i].X, points[i].Y},
			})
		}

		name := fmt.Sprintf("Cluster %d", c)
		color = getNewColor(color)
		es.AddSeries(name, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: color}))
	}

	dataCentroids := make([]opts.ScatterData, 0, len(result.Centroids))
	for c, centroid := range result.Centroids {
		dataCentroids = append(dataCentroids, opts.ScatterData{
			Name:  strconv.Itoa(c),
			Value: []float64{centroid.X, centroid.Y},
		})
	}

	es.AddSeries("Centroids", dataCentroids, charts.WithItemStyleOpts(opts.ItemStyle{Color: "black"}))

	return es.Render(w)
}

// Bar writes an HTML bar chart of member counts per cluster. Counts come
// from the final membership sets, not the last update step, so they always
// sum to the number of points.
func Bar(w io.Writer, result *kmeansgo.Result, optFns ...func(*Options)) error {
	o := Options{
		Title:    "k-means cluster sizes",
		SaveName: "k-means_bar",
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: o.Title}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show:  true,
			Right: "20%",
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{
					Show:  true,
					Type:  "png",
					Title: o.SaveName,
				},
				DataView: &opts.ToolBoxFeatureDataView{
					Show:  true,
					Title: "Data",
					Lang:  []string{"View", "Close", "Refresh"},
				},
			},
		}),
	)

	items := make([]opts.BarData, 0, result.K())
	xAxis := make([]string, 0, result.K())
	for c := 0; c < result.K(); c++ {
		xAxis = append(xAxis, strconv.Itoa(c))
		items = append(items, opts.BarData{
			Name:  strconv.Itoa(c),
			Value: result.Members(c).GetCardinality(),
		})
	}

	bar.SetXAxis(xAxis).AddSeries("", items).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{
			Show:     true,
			Position: "top",
		}),
	)

	return bar.Render(w)
}

// getNewColor draws a random color distinct from the previous one so
// adjacent cluster series never share a color.
func getNewColor(color string) string {
	var res string

	if color == "" {
		res = randomcolor.GetRandomColorInHex()
	} else {
		ok := false
		for !ok {
			res = randomcolor.GetRandomColorInHex()
			if color != res {
				ok = true
			}
		}
	}

	return res
}
