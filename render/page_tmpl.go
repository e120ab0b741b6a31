package render

const pageTemplateText = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
:root {
  --bg: #fff; --fg: #1a1a2e; --card-bg: #f8f9fa; --border: #dee2e6;
  --muted: #6c757d; --accent: #0d6efd;
  --high: #dc3545; --medium: #ffc107; --low: #28a745;
}
* { box-sizing: border-box; margin: 0; padding: 0; }
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; background: var(--bg); color: var(--fg); line-height: 1.5; padding: 1rem; max-width: 1400px; margin: 0 auto; }
header { margin-bottom: 1.5rem; }
header h1 { font-size: 1.5rem; margin-bottom: .25rem; }
header p { color: var(--muted); font-size: .875rem; }
#error-message { border: 1px solid var(--high); border-radius: 8px; padding: 1rem; color: var(--high); white-space: pre-wrap; }
.cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(160px, 1fr)); gap: .75rem; margin-bottom: 1.5rem; }
.card { background: var(--card-bg); border: 1px solid var(--border); border-radius: 8px; padding: .75rem; text-align: center; }
.card .value { font-size: 1.75rem; font-weight: 700; }
.card .label { font-size: .75rem; color: var(--muted); text-transform: uppercase; }
.charts { display: grid; grid-template-columns: 2fr 1fr; gap: 1rem; margin-bottom: 1.5rem; }
@media (max-width: 768px) { .charts { grid-template-columns: 1fr; } }
.chart-box { background: var(--card-bg); border: 1px solid var(--border); border-radius: 8px; padding: 1rem; }
.chart-box h3 { font-size: .875rem; margin-bottom: .5rem; }
.theme-block { border: 1px solid var(--border); border-radius: 8px; margin-bottom: .5rem; }
.theme-header { display: flex; justify-content: space-between; padding: .625rem .875rem; cursor: pointer; user-select: none; background: var(--card-bg); border-radius: 8px; }
.theme-header:hover { color: var(--accent); }
.badge { background: var(--accent); color: #fff; border-radius: 999px; padding: 0 .625rem; font-size: .75rem; font-weight: 700; }
.theme-block.collapsed .theme-body { display: none; }
.theme-body { padding: .5rem .875rem; }
.raw-label { font-weight: 600; font-size: .8125rem; margin: .5rem 0 .25rem; }
.signals { list-style: none; }
.signal { border-left: 3px solid var(--border); padding: .25rem .625rem; margin-bottom: .375rem; font-size: .8125rem; }
.priority-high { border-left-color: var(--high); }
.priority-medium { border-left-color: var(--medium); }
.priority-low { border-left-color: var(--low); }
.signal .meta { color: var(--muted); font-size: .75rem; }
.evidence { color: var(--muted); font-style: italic; margin-top: .125rem; }
</style>
</head>
<body>
<header>
  <h1>{{.Title}}</h1>
  {{if not .Error}}<p>Generated {{.GeneratedAt}}{{if .Source}} &middot; source {{.Source}}{{end}}{{if .Issues}} &middot; {{.Issues}} malformed entries skipped{{end}}</p>{{end}}
</header>
{{if .Error}}
<div id="error-message">{{.Error}}</div>
{{else}}
<main id="main-content" data-load-id="{{.LoadID}}">
{{with .Summary}}
<section class="cards" id="summary-cards">
  {{range .Cards}}<div class="card" id="{{.ID}}"><div class="value">{{.Value}}</div><div class="label">{{.Label}}</div></div>
  {{end}}
</section>
{{end}}
{{with .Charts}}
<section class="charts" id="charts">
  {{if .Themes}}<div class="chart-box"><h3>Signals by theme</h3><div id="chart-themes"></div></div>{{end}}
  {{if .Priority}}<div class="chart-box"><h3>Priority</h3><div id="chart-priority"></div></div>{{end}}
</section>
{{end}}
{{if .Table}}
<section id="theme-list">
{{range .Themes}}
<div class="theme-block collapsed" data-theme="{{.Name}}">
  <div class="theme-header" onclick="toggleTheme(this)"><span class="theme-name">{{.Name}}</span><span class="badge">{{.Total}}</span></div>
  <div class="theme-body">
  {{range .Rows}}
    <div class="raw-theme">
      <div class="raw-label">{{.Label}}</div>
      <ul class="signals">
      {{range .Items}}<li class="signal {{.PriorityClass}}">
        <div class="ask">{{.Ask}}</div>
        {{if or .Transcript .Started}}<div class="meta">{{.Transcript}}{{if .Started}} &middot; {{.Started}}{{end}}</div>{{end}}
        {{if .Evidence}}<div class="evidence">&ldquo;{{.Evidence}}&rdquo;</div>{{end}}
      </li>{{end}}
      </ul>
    </div>
  {{end}}
  </div>
</div>
{{end}}
</section>
{{end}}
</main>
{{end}}
<script>
var charts = {{json .Charts}} || {};

function svgEl(tag, attrs) {
  var el = document.createElementNS("http://www.w3.org/2000/svg", tag);
  for (var k in attrs) el.setAttribute(k, attrs[k]);
  return el;
}

function mount(id) {
  var c = document.getElementById(id);
  if (!c) return null;
  while (c.firstChild) c.removeChild(c.firstChild);
  return c;
}

function renderBarChart(chart) {
  var c = mount(chart.id); if (!c) return;
  var labels = chart.labels || [], values = chart.values || [];
  var max = Math.max.apply(null, values.concat([1]));
  var h = labels.length * 28 + 4;
  var svg = svgEl("svg", {width:"100%", viewBox:"0 0 480 "+h});
  for (var i = 0; i < labels.length; i++) {
    var w = (values[i]/max)*300;
    var y = i*28+2;
    svg.appendChild(svgEl("rect", {x:150, y:y, width:Math.max(w,2), height:20, fill:chart.colors[i], rx:3}));
    var txt = svgEl("text", {x:145, y:y+14, "text-anchor":"end", fill:"currentColor", "font-size":"11"});
    txt.textContent = labels[i].length > 24 ? labels[i].slice(0,22)+"..." : labels[i];
    svg.appendChild(txt);
    var val = svgEl("text", {x:155+w, y:y+14, fill:"currentColor", "font-size":"11"});
    val.textContent = values[i];
    svg.appendChild(val);
  }
  c.appendChild(svg);
}

function renderDonut(chart) {
  var c = mount(chart.id); if (!c) return;
  var labels = chart.labels || [], values = chart.values || [];
  var total = values.reduce(function(a,b){return a+b},0);
  if (!total) return;
  var svg = svgEl("svg", {width:"100%", viewBox:"0 0 300 160"});
  var cx=80, cy=80, r=60, angle=-Math.PI/2;
  for (var i = 0; i < values.length; i++) {
    var slice = (values[i]/total)*Math.PI*2;
    if (values.length === 1) {
      svg.appendChild(svgEl("circle", {cx:cx, cy:cy, r:r, fill:chart.colors[i]}));
      continue;
    }
    var x1=cx+r*Math.cos(angle), y1=cy+r*Math.sin(angle);
    angle += slice;
    var x2=cx+r*Math.cos(angle), y2=cy+r*Math.sin(angle);
    var large = slice > Math.PI ? 1 : 0;
    var d = "M"+cx+","+cy+" L"+x1+","+y1+" A"+r+","+r+" 0 "+large+",1 "+x2+","+y2+" Z";
    svg.appendChild(svgEl("path", {d:d, fill:chart.colors[i]}));
  }
  svg.appendChild(svgEl("circle", {cx:cx, cy:cy, r:30, fill:"var(--card-bg)"}));
  for (var j = 0; j < labels.length; j++) {
    var ly = 16 + j*18;
    svg.appendChild(svgEl("rect", {x:175, y:ly-8, width:10, height:10, fill:chart.colors[j], rx:2}));
    var lt = svgEl("text", {x:190, y:ly+1, fill:"currentColor", "font-size":"11"});
    lt.textContent = labels[j]+" ("+values[j]+")";
    svg.appendChild(lt);
  }
  c.appendChild(svg);
}

function toggleTheme(header) { header.parentElement.classList.toggle("collapsed"); }

(function(){
  if (charts.themes) renderBarChart(charts.themes);
  if (charts.priority) renderDonut(charts.priority);
})();
</script>
</body>
</html>`
