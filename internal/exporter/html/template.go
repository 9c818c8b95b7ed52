package html

// ReportTemplate wraps the rendered markdown body in a styled page
const ReportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Workbook Query Report - {{.Date}}</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background: #f5f7fa;
            color: #2c3e50;
            line-height: 1.6;
        }

        .container {
            max-width: 1200px;
            margin: 0 auto;
            padding: 20px;
        }

        header {
            background: linear-gradient(135deg, #2e7d32 0%, #1b5e20 100%);
            color: white;
            padding: 40px 20px;
            margin-bottom: 30px;
            border-radius: 8px;
            box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);
        }

        header h1 {
            font-size: 2.2em;
            margin-bottom: 10px;
        }

        header p {
            font-size: 1.05em;
            opacity: 0.9;
        }

        .stats {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
            gap: 15px;
            margin-bottom: 30px;
        }

        .stat-card {
            background: white;
            padding: 15px;
            border-radius: 6px;
            border-left: 4px solid #2e7d32;
            box-shadow: 0 2px 4px rgba(0, 0, 0, 0.05);
        }

        .stat-card .label {
            font-size: 0.9em;
            color: #6c757d;
            margin-bottom: 5px;
        }

        .stat-card .value {
            font-size: 1.8em;
            font-weight: bold;
        }

        .report {
            background: white;
            padding: 20px;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0, 0, 0, 0.05);
        }

        .report h2 {
            color: #2e7d32;
            margin: 20px 0 10px;
            padding-bottom: 8px;
            border-bottom: 2px solid #e9ecef;
        }

        .report h3 {
            color: #495057;
            margin: 15px 0 8px;
        }

        table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 20px;
        }

        th {
            background: #f8f9fa;
            padding: 10px;
            text-align: left;
            font-weight: 600;
            color: #495057;
            border-bottom: 2px solid #dee2e6;
        }

        td {
            padding: 10px;
            border-bottom: 1px solid #e9ecef;
        }

        tr:hover {
            background: #f8f9fa;
        }

        code {
            font-family: 'Courier New', monospace;
            color: #e83e8c;
        }

        footer {
            text-align: center;
            padding: 20px;
            color: #6c757d;
            font-size: 0.9em;
        }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>Workbook Query Report</h1>
            <p>{{.Workbook}} &middot; {{.Mode}} mode &middot; {{.Date}}</p>
        </header>

        <div class="stats">
            <div class="stat-card"><div class="label">Sheets</div><div class="value">{{.SheetCount}}</div></div>
            <div class="stat-card"><div class="label">Queries</div><div class="value">{{.QueryCount}}</div></div>
            <div class="stat-card"><div class="label">With Results</div><div class="value">{{.MatchedCount}}</div></div>
        </div>

        <div class="report">
{{.Body}}
        </div>

        <footer>Run {{.RunID}}</footer>
    </div>
</body>
</html>
`
